package printing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter(in string, opts ...Option) (*Printer, *bytes.Buffer) {
	var out bytes.Buffer
	opts = append([]Option{WithIO(&out, strings.NewReader(in))}, opts...)
	return New(opts...), &out
}

func TestPrinter_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		write   func(p *Printer)
		want    string
	}{
		{
			name:  "success",
			write: func(p *Printer) { p.Success("Cloned %s", "impacket") },
			want:  "[+] Cloned impacket\n",
		},
		{
			name:  "info",
			write: func(p *Printer) { p.Info("The following tools are installed:") },
			want:  "[*] The following tools are installed:\n",
		},
		{
			name:  "error",
			write: func(p *Printer) { p.Error("Tool %s not found", "x") },
			want:  "[-] Tool x not found\n",
		},
		{
			name:  "verbose disabled",
			write: func(p *Printer) { p.Verbosef("hidden") },
			want:  "",
		},
		{
			name:    "verbose enabled",
			verbose: true,
			write:   func(p *Printer) { p.Verbosef("shown") },
			want:    "[~] shown\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, out := newTestPrinter("", WithVerbose(tt.verbose))
			tt.write(p)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestPrinter_Count(t *testing.T) {
	t.Parallel()

	p, out := newTestPrinter("")
	zero, three := 0, 3
	p.Count("recon", nil, 1)
	p.Count("impacket", &zero, 2)
	p.Count("oledump", &three, 1)
	p.Count("flat", nil, 0)

	assert.Equal(t, "    recon\n        [0] impacket\n    [3] oledump\nflat\n", out.String())
}

func TestPrinter_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		interactive bool
		assumeYes   bool
		want        bool
		wantErr     error
	}{
		{name: "yes", input: "y\n", interactive: true, want: true},
		{name: "full yes uppercase", input: "YES\n", interactive: true, want: true},
		{name: "no", input: "n\n", interactive: true},
		{name: "default is no", input: "\n", interactive: true},
		{name: "end of input is no", input: "", interactive: true},
		{name: "asks again on invalid answer", input: "maybe\ny\n", interactive: true, want: true},
		{name: "assume yes", assumeYes: true, want: true},
		{name: "non-interactive", wantErr: ErrConfirmationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, out := newTestPrinter(tt.input, WithInteractive(tt.interactive), WithAssumeYes(tt.assumeYes))
			got, err := p.Confirm("Overwrite the config?")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.interactive {
				assert.Contains(t, out.String(), "[?] Overwrite the config? [y/N]: ")
			}
		})
	}
}

func TestPrinter_ConfirmOrAbort(t *testing.T) {
	t.Parallel()

	p, _ := newTestPrinter("n\n", WithInteractive(true))
	require.ErrorIs(t, p.ConfirmOrAbort("Continue?"), ErrAborted)

	p, _ = newTestPrinter("y\n", WithInteractive(true))
	require.NoError(t, p.ConfirmOrAbort("Continue?"))
}

func TestPrinter_ConfirmSuccessivePrompts(t *testing.T) {
	t.Parallel()

	p, out := newTestPrinter("y\nmaybe\nn\ny\n", WithInteractive(true))

	for _, want := range []bool{true, false, true} {
		got, err := p.Confirm("Continue?")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 4, strings.Count(out.String(), "[?] Continue? [y/N]: "))
}

func TestPrinter_Table(t *testing.T) {
	t.Parallel()

	p, out := newTestPrinter("")
	err := p.Table([]string{"Name", "Category", "Type"}, [][]string{
		{"impacket", "recon", "git"},
		{"oledump", "(uncategorized)", "urlfile"},
	})
	require.NoError(t, err)

	text := out.String()
	for _, cell := range []string{"impacket", "recon", "oledump", "(uncategorized)", "urlfile"} {
		assert.Contains(t, text, cell)
	}
	assert.Contains(t, strings.ToUpper(text), "CATEGORY")
}

func TestPrinter_Progress(t *testing.T) {
	t.Parallel()

	p, out := newTestPrinter("")
	p.Progress("Collecting", 1, 3)
	p.Progress("Collecting", 2, 3)
	assert.Empty(t, out.String(), "intermediate steps are not written outside a terminal")

	p.Progress("Collecting", 3, 3)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.True(t, strings.HasPrefix(out.String(), "Collecting "))
	assert.Contains(t, out.String(), " 3/3\n")

	p.Progress("Nothing", 0, 0)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}
