package enums

// TransactionStatus labels a withdrawal header. The engine writes approved
// headers only; the column exists so a future approval flow can reuse the log.
type TransactionStatus string

const (
	TransactionStatusApproved TransactionStatus = "approved"
)

func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusApproved
}

func (s TransactionStatus) String() string {
	return string(s)
}
