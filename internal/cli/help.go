package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gomdlive/internal/ui/pretty"
)

// Command groups shown in help output.
const (
	groupPreview = "preview"
	groupInspect = "inspect"
	groupVault   = "vault"
)

// helpStyles styles command help.
type helpStyles struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{command: plain, heading: plain, name: plain, flag: plain, dim: plain}
	}

	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return helpStyles{
		command: fg("14").Bold(true),
		heading: fg("11").Bold(true),
		name:    fg("10"),
		flag:    fg("12"),
		dim:     fg("8"),
	}
}

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if .Aliases}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}{{$cmds := .Commands}}
{{- range $group := .Groups}}

{{heading $group.Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) .IsAvailableCommand)}}
  {{name (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if not .AllChildCommandsHaveGroup}}

{{heading "Other Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{name (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more information about a command.{{end}}
`

// applyHelp installs styled help on root and its subcommands. Colour is
// decided when help is printed, after flags are parsed.
func applyHelp(root *cobra.Command, colorMode func() string) {
	root.AddGroup(
		&cobra.Group{ID: groupPreview, Title: "Preview Commands:"},
		&cobra.Group{ID: groupInspect, Title: "Inspect Commands:"},
		&cobra.Group{ID: groupVault, Title: "Vault Commands:"},
	)

	render := func(cmd *cobra.Command) error {
		styles := newHelpStyles(pretty.IsColorEnabled(colorMode(), cmd.OutOrStdout()))
		tmpl, err := template.New("help").Funcs(helpFuncs(styles)).Parse(helpTemplate)
		if err != nil {
			return fmt.Errorf("parse help template: %w", err)
		}
		return tmpl.Execute(cmd.OutOrStdout(), cmd)
	}

	root.SetUsageFunc(render)
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := render(cmd); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

func helpFuncs(styles helpStyles) template.FuncMap {
	return template.FuncMap{
		"command":   styles.command.Render,
		"heading":   styles.heading.Render,
		"name":      styles.name.Render,
		"dim":       styles.dim.Render,
		"join":      strings.Join,
		"pad":       pad,
		"trimRight": trimRightLines,
		"flags": func(fs *pflag.FlagSet) string {
			return formatFlags(fs, styles)
		},
	}
}

// formatFlags lists the visible flags of fs, one per line, descriptions
// aligned.
func formatFlags(fs *pflag.FlagSet, styles helpStyles) string {
	type row struct {
		names, kind, usage string
	}

	var rows []row
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		names := "    --" + f.Name
		if f.Shorthand != "" {
			names = "-" + f.Shorthand + ", --" + f.Name
		}
		kind, usage := pflag.UnquoteUsage(f)
		if def := flagDefault(f); def != "" {
			usage += " (default " + def + ")"
		}

		rows = append(rows, row{names: names, kind: kind, usage: usage})
		width = max(width, len(names)+len(kind)+1)
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		left := styles.flag.Render(r.names)
		used := len(r.names)
		if r.kind != "" {
			left += " " + styles.dim.Render(r.kind)
			used += len(r.kind) + 1
		}
		lines = append(lines, "  "+left+strings.Repeat(" ", width-used+3)+r.usage)
	}
	return strings.Join(lines, "\n")
}

// flagDefault returns the default of f worth printing, or "".
func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "[]", "0s":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimRightLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
