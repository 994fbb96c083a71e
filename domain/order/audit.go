package order

import (
	"strconv"
	"strings"
	"time"
)

// auditTimeLayout round-trip UTC timestamp with 7 fractional digits
const auditTimeLayout = "2006-01-02T15:04:05.0000000Z"

// StatusChange one applied transition, stored in the append-only audit table
// and rendered into the cumulative change log of the order
type StatusChange struct {
	From      Status
	To        Status
	AdminID   int64
	Reason    string
	ChangedAt time.Time
}

// Line renders the change as
// "[<timestamp>] <from> -> <to> by admin:<id>[ reason: <reason>]".
// A blank reason adds no suffix.
func (c StatusChange) Line() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(c.ChangedAt.UTC().Format(auditTimeLayout))
	b.WriteString("] ")
	b.WriteString(string(c.From))
	b.WriteString(" -> ")
	b.WriteString(string(c.To))
	b.WriteString(" by admin:")
	b.WriteString(strconv.FormatInt(c.AdminID, 10))
	if strings.TrimSpace(c.Reason) != "" {
		b.WriteString(" reason: ")
		b.WriteString(c.Reason)
	}
	return b.String()
}

// appendLog adds line to a newline separated log
func appendLog(log, line string) string {
	if strings.TrimSpace(log) == "" {
		return line
	}
	return log + "\n" + line
}
