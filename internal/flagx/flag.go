// Package flagx lets independent components parse only the command-line
// flags they own, so several flag sets can share os.Args without tripping
// over each other's unknown flags.
package flagx

import (
	"flag"
	"strings"
)

// Spec names the flags a component owns. Value flags consume the following
// argument unless it looks like another flag; bool flags never do.
type Spec struct {
	Value []string
	Bool  []string
}

// FilterArgs returns the subset of args that belongs to spec, in the order the
// arguments appeared. Both "-f value" and "-f=value" forms are supported.
func FilterArgs(args []string, spec Spec) []string {
	value := toSet(spec.Value)
	boolean := toSet(spec.Bool)

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		_, isValue := value[name]
		_, isBool := boolean[name]
		if !isValue && !isBool {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue || isBool {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile extracts the JSON config path passed with -c or -config.
// It returns an empty string when neither flag is present.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, Spec{Value: []string{"-c", "-config", "--config"}}))

	return path
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
