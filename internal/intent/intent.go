// Package intent classifies inbound chat text into a small set of commands.
package intent

import (
	"regexp"
	"strings"

	"github.com/arcagent/arcagent/internal/model"
)

type Kind string

const (
	Register     Kind = "registration"
	SendMoney    Kind = "send_money"
	CheckBalance Kind = "check_balance"
	History      Kind = "transaction_history"
	Confirm      Kind = "confirm"
	Cancel       Kind = "cancel"
	Help         Kind = "help"
	VerifyCode   Kind = "verify_code"
	Unknown      Kind = "unknown"
)

// Intent is the parse result. AmountCents and Recipient are set for
// SendMoney, Code for VerifyCode.
type Intent struct {
	Kind        Kind
	AmountCents int64
	Recipient   string
	Code        string
	Raw         string
}

var (
	sendAmountFirst = []*regexp.Regexp{
		regexp.MustCompile(`^(?:send|transfer)\s+\$?(\d+(?:\.\d{1,2})?)\s+(?:usdc\s+)?to\s+(.+)$`),
	}
	sendRecipientFirst = regexp.MustCompile(`^pay\s+(.+?)\s+\$?(\d+(?:\.\d{1,2})?)$`)

	codeRe     = regexp.MustCompile(`^\d{6}$`)
	registerRe = regexp.MustCompile(`\b(hi|hello|hey|start|register|signup|sign up)\b`)
	balanceRe  = regexp.MustCompile(`\b(balance|bal|how much|wallet)\b`)
	historyRe  = regexp.MustCompile(`\b(history|transactions|activity|statement)\b`)
	confirmRe  = regexp.MustCompile(`^(confirm|yes|y|proceed|ok|okay)\b`)
	cancelRe   = regexp.MustCompile(`^(cancel|no|n|abort|stop)\b`)
	helpRe     = regexp.MustCompile(`\b(help|commands|what can|how to)\b`)
)

// Parse classifies message. Matching is case-insensitive; the first rule
// that matches wins, most specific first.
func Parse(message string) Intent {
	text := strings.ToLower(strings.Join(strings.Fields(message), " "))
	in := Intent{Kind: Unknown, Raw: text}

	for _, re := range sendAmountFirst {
		if m := re.FindStringSubmatch(text); m != nil {
			if cents, err := model.ParseAmount(m[1]); err == nil {
				in.Kind, in.AmountCents, in.Recipient = SendMoney, cents, strings.TrimSpace(m[2])
				return in
			}
		}
	}
	if m := sendRecipientFirst.FindStringSubmatch(text); m != nil {
		if cents, err := model.ParseAmount(m[2]); err == nil {
			in.Kind, in.AmountCents, in.Recipient = SendMoney, cents, strings.TrimSpace(m[1])
			return in
		}
	}

	switch {
	case codeRe.MatchString(text):
		in.Kind, in.Code = VerifyCode, text
	case confirmRe.MatchString(text):
		in.Kind = Confirm
	case cancelRe.MatchString(text):
		in.Kind = Cancel
	case balanceRe.MatchString(text):
		in.Kind = CheckBalance
	case historyRe.MatchString(text):
		in.Kind = History
	case helpRe.MatchString(text):
		in.Kind = Help
	case registerRe.MatchString(text):
		in.Kind = Register
	}
	return in
}
