// Package mainboilerplate holds the configuration, logging and diagnostics
// plumbing of the nachos command.
package mainboilerplate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
)

// Version and BuildDate are populated at link time.
var (
	Version   = "development"
	BuildDate = "unknown"
)

// configDirs returns where an INI file is looked for, most preferred first.
func configDirs() []string {
	var dirs = []string{"."}
	if home, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "nachos"))
	}
	return dirs
}

// MustParseConfig parses an optional INI file named |configName| from the
// first of configDirs holding one, then environment bindings and flags,
// which take precedence. It exits the process on invalid input.
func MustParseConfig(parser *flags.Parser, configName string) {
	var opts = parser.Options
	parser.Options |= flags.IgnoreUnknown

	for _, dir := range configDirs() {
		var err = flags.NewIniParser(parser).ParseFile(filepath.Join(dir, configName))
		if err == nil {
			break
		} else if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	parser.Options = opts

	var _, err = parser.Parse()
	if err == nil {
		return
	}
	switch flagErr, _ := err.(*flags.Error); {
	case flagErr == nil:
		Must(err, "parsing arguments")
	case flagErr.Type == flags.ErrHelp, flagErr.Type == flags.ErrCommandRequired:
		if flagErr.Type == flags.ErrCommandRequired || parser.Options&flags.PrintErrors == 0 {
			parser.WriteHelp(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "\nnachos %s, built %s\n", Version, BuildDate)
		os.Exit(1)
	default:
		// The input error was already printed by go-flags.
		os.Exit(1)
	}
}

// AddPrintConfigCmd adds a "print-config" command writing the combined
// configuration of |configName|, environment and flags as INI.
func AddPrintConfigCmd(parser *flags.Parser, configName string) {
	parser.AddCommand("print-config", "Print the combined kernel configuration", `
print-config writes the configuration merged from `+configName+`, environment
variables and flags to stdout in INI format, suitable for use as `+configName+`.
`, &printConfig{parser})
}

type printConfig struct{ parser *flags.Parser }

func (p printConfig) Execute([]string) error {
	flags.NewIniParser(p.parser).Write(os.Stdout,
		flags.IniIncludeComments|flags.IniCommentDefaults|flags.IniIncludeDefaults)
	return nil
}
