package gui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	evalext "modernc.org/tk9.0/extensions/eval"
)

func tkEval(format string, a ...any) (string, error) {
	script := fmt.Sprintf(format, a...)
	r, err := evalext.Eval(script)
	if err != nil {
		return "", fmt.Errorf("tk eval=%s; err=%w", script, err)
	}
	return r, nil
}

func tkEvalOrEmpty(format string, a ...any) string {
	out, err := tkEval(format, a...)
	if err != nil {
		slog.Debug("tk eval or empty", slog.Any("error", err))
		return ""
	}
	return out
}

func tkFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

// tclQuote wraps s in braces, escaping the characters that would end or
// nest the word.
func tclQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "{", `\{`, "}", `\}`)
	return "{" + r.Replace(s) + "}"
}

func tclList(items ...string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = tclQuote(item)
	}
	return strings.Join(quoted, " ")
}
