// Package flagx lets several independent FlagSets share os.Args: each one
// sees only the flags it declares.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps the arguments in args that belong to allowedFlags.
//
// Both "-c value" and "-c=value" forms are recognised. In the separate form
// the following argument is treated as the value unless it starts with "-".
// Order is preserved and the result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			filtered = append(filtered, args[i])
		}
	}

	return filtered
}

// JsonConfigFlags returns the path given with -c or -config, or "" when
// neither is present. When both appear the last one wins.
func JsonConfigFlags() string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
