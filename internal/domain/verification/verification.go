// Package verification checks pasted M-Pesa confirmation messages against
// the savings amount the customer was asked to pay.
//
// The check is a plain substring match on the decimal amount. It does not
// parse the sender, the transaction code or the amount field and has no
// replay protection.
package verification

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Status string

const (
	StatusVerified Status = "VERIFIED"
	StatusFailed   Status = "FAILED"
)

type Result struct {
	Status Status
	Reason string
}

func (r Result) Verified() bool {
	return r.Status == StatusVerified
}

var printer = message.NewPrinter(language.English)

// Verify reports Verified when the decimal form of expectedSavings occurs
// anywhere in pastedMessage.
func Verify(pastedMessage string, expectedSavings int64) Result {
	if strings.Contains(pastedMessage, strconv.FormatInt(expectedSavings, 10)) {
		return Result{Status: StatusVerified}
	}
	return Result{
		Status: StatusFailed,
		Reason: fmt.Sprintf("Payment verification failed. Please ensure you paste the correct M-Pesa message containing amount KES %s.", FormatKES(expectedSavings)),
	}
}

// FormatKES renders an amount with thousands separators, e.g. 1,250.
func FormatKES(amount int64) string {
	return printer.Sprintf("%d", amount)
}
