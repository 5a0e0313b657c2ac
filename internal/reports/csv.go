package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// utf8BOM makes spreadsheet tools detect the encoding of exported files.
const utf8BOM = "\ufeff"

const exportTimeLayout = "02/01/2006 15:04"

// WriteItemsCSV writes an inventory export to w.
func WriteItemsCSV(w io.Writer, items []RoomItem) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Item", "Quantity", "Unit", "Storage", "Room"}); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			item.ItemName,
			strconv.Itoa(item.Quantity),
			item.Unit,
			item.StorageName,
			item.Location,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteWithdrawHistoryCSV writes a withdraw history export to w.
func WriteWithdrawHistoryCSV(w io.Writer, entries []WithdrawEntry) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	header := []string{"Date", "Requested By", "Department", "Item", "Amount", "Unit", "Storage", "Status"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			entry.TransactionDate.Format(exportTimeLayout),
			entry.Fullname,
			entry.Department,
			entry.ItemName,
			strconv.Itoa(entry.Amount),
			entry.Unit,
			fmt.Sprintf("%s - %s", entry.Location, entry.StorageName),
			entry.Status,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
