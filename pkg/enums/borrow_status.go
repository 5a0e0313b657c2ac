package enums

// BorrowStatus tracks the lifecycle of a borrow record.
type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusReturned BorrowStatus = "returned"
)

func (s BorrowStatus) IsValid() bool {
	switch s {
	case BorrowStatusBorrowed, BorrowStatusReturned:
		return true
	}
	return false
}

func (s BorrowStatus) String() string {
	return string(s)
}
