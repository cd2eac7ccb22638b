package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

// csvHeader is the fixed column set of the CSV export.
var csvHeader = []string{
	"transactionId", "type", "timestamp", "description", "reference",
	"originUserId", "originEmail", "originCountry", "originAmount", "originCurrency", "originIp", "originDevice",
	"destinationUserId", "destinationEmail", "destinationCountry", "destinationAmount", "destinationCurrency", "destinationIp", "destinationDevice",
	"promotionCodeUsed",
}

// WriteCSV streams the transaction set as CSV. The header row is always
// written, even for zero rows. Quoting and delimiter escaping follow
// RFC 4180, so values containing commas, quotes or newlines survive a
// round trip.
func WriteCSV(w io.Writer, txs []domain.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range txs {
		if err := cw.Write(csvRow(&txs[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ToCSV renders the transaction set into a byte slice. Exposed for
// callers outside the HTTP surface (batch jobs, tests).
func ToCSV(txs []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func csvRow(t *domain.Transaction) []string {
	originAmount, originCurrency, originCountry := amountColumns(t.OriginAmountDetails)
	destAmount, destCurrency, destCountry := amountColumns(t.DestinationAmountDetails)
	originIP, originDevice := deviceColumns(t.OriginDeviceData)
	destIP, destDevice := deviceColumns(t.DestinationDeviceData)

	promotion := "No"
	if t.PromotionCodeUsed != nil && *t.PromotionCodeUsed {
		promotion = "Yes"
	}

	return []string{
		t.TransactionID,
		t.Type,
		time.UnixMilli(t.Timestamp).UTC().Format(time.RFC3339),
		t.Description,
		t.Reference,
		t.OriginUserID, t.OriginEmail, originCountry, originAmount, originCurrency, originIP, originDevice,
		t.DestinationUserID, t.DestinationEmail, destCountry, destAmount, destCurrency, destIP, destDevice,
		promotion,
	}
}

func amountColumns(d *domain.AmountDetails) (amount, currency, country string) {
	if d == nil {
		return "", "", ""
	}
	return strconv.FormatFloat(d.TransactionAmount, 'f', -1, 64), d.TransactionCurrency, d.Country
}

func deviceColumns(d *domain.DeviceData) (ip, device string) {
	if d == nil {
		return "", ""
	}
	device = d.DeviceMaker
	if d.DeviceModel != "" {
		if device != "" {
			device += " "
		}
		device += d.DeviceModel
	}
	return d.IPAddress, device
}
