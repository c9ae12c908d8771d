package service

import "strings"

// Command is a text command understood by the desk.
type Command string

const (
	CmdStart     Command = "/start"
	CmdInput     Command = "/input"
	CmdName      Command = "/nama"
	CmdAddress   Command = "/alamat"
	CmdPayment   Command = "/pembayaran"
	CmdHeadcount Command = "/jiwa"
	CmdExtras    Command = "/tambahan"
	CmdSummary   Command = "/lihat"
	CmdConfirm   Command = "/ok"
	CmdCancel    Command = "/cancel"
)

var commands = map[Command]bool{
	CmdStart:     true,
	CmdInput:     true,
	CmdName:      true,
	CmdAddress:   true,
	CmdPayment:   true,
	CmdHeadcount: true,
	CmdExtras:    true,
	CmdSummary:   true,
	CmdConfirm:   true,
	CmdCancel:    true,
}

// menuLabels maps the reply keyboard buttons to their commands.
var menuLabels = map[string]Command{
	"nama":       CmdName,
	"alamat":     CmdAddress,
	"pembayaran": CmdPayment,
	"jiwa":       CmdHeadcount,
	"tambahan":   CmdExtras,
	"lihat":      CmdSummary,
	"ok":         CmdConfirm,
	"cancel":     CmdCancel,
}

// ParseCommand classifies a message. Menu labels match case-insensitively;
// slash commands match exactly and may carry a "@botname" suffix as sent in
// group chats.
func ParseCommand(text string) (Command, bool) {
	trimmed := strings.TrimSpace(text)
	if cmd, ok := menuLabels[strings.ToLower(trimmed)]; ok {
		return cmd, true
	}
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}
	if at := strings.IndexByte(trimmed, '@'); at > 0 {
		trimmed = trimmed[:at]
	}
	cmd := Command(trimmed)
	return cmd, commands[cmd]
}
