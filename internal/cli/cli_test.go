package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagNames collects the local flag names of a command, minus help.
func flagNames(cmd *cobra.Command) map[string]*pflag.Flag {
	flags := make(map[string]*pflag.Flag)
	cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
		if flag.Name == "help" {
			return
		}
		flags[flag.Name] = flag
	})
	return flags
}

func findCommand(t *testing.T, names ...string) *cobra.Command {
	t.Helper()
	cmd := rootCmd
	for _, name := range names {
		var next *cobra.Command
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				next = sub
				break
			}
		}
		if next == nil {
			t.Fatalf("command %q not found under %q", name, cmd.Name())
		}
		cmd = next
	}
	return cmd
}

func TestSearchCommandFlags(t *testing.T) {
	flags := flagNames(findCommand(t, "search"))

	for _, want := range []string{"limit", "since", "until", "as", "user", "channel"} {
		if flags[want] == nil {
			t.Errorf("search is missing flag --%s", want)
		}
	}
	if f := flags["limit"]; f == nil || f.DefValue != "10" {
		t.Errorf("limit default = %v", f)
	}
}

func TestNoteAddRequiresAuthor(t *testing.T) {
	cmd := findCommand(t, "note", "add")
	flags := flagNames(cmd)

	f := flags["as"]
	if f == nil {
		t.Fatal("note add is missing flag --as")
	}
	if f.Annotations[cobra.BashCompOneRequiredFlag] == nil {
		t.Error("--as should be marked required")
	}
	if v := flags["visibility"]; v == nil || v.DefValue != "public" {
		t.Errorf("visibility default = %v", v)
	}
}

func TestGraphCommandsRegistered(t *testing.T) {
	for _, name := range []string{"add", "follow", "mute", "block"} {
		findCommand(t, "user", name)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, want := range []string{"config", "data-dir", "json"} {
		if rootCmd.PersistentFlags().Lookup(want) == nil {
			t.Errorf("missing persistent flag --%s", want)
		}
	}
}
