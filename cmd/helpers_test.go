package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
)

const curlBase = "curl -fsSL https://raw.githubusercontent.com/PeonPing/peon-ping/main/install.sh | bash"

// newTestCommand returns a command whose output is captured in the buffer
func newTestCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetContext(context.Background())
	return c, &buf
}

// resetFlags clears every package-level flag a test may have set
func resetFlags() {
	resetSelectionFlags()
	link = ""
	commandMode = ""
	listLang = "all"
	listQuery = ""
	listJSON = false
	listToon = false
	showJSON = false
	showToon = false
	previewCategory = ""
	previewIndex = 0
	serveAddr = ""
}
