package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/hexbyte/editlog/core"
	"github.com/hexbyte/editlog/internal/config"
	"github.com/hexbyte/editlog/internal/logging"
	"github.com/hexbyte/editlog/internal/quarantine"
)

var cfg config.Config

func main() {
	var configPath string
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "editlog",
		Short: "Persistent undo/redo journal for byte-level file edits",
		Long: "editlog journals the inverse of every edit made to a file as plain-text " +
			"records in directories beside it, so any edit can be undone and redone " +
			"across process restarts and inspected with ordinary shell tools.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = defaultConfigPath()
			}
			var err error
			cfg, err = config.Load(path)
			if err != nil {
				return err
			}
			if debug {
				cfg.Debug = true
			}
			logging.Init(cfg.Debug)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Verbose logging and quarantine diagnostics")

	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(undoCmd())
	rootCmd.AddCommand(redoCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(clearRedoCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(replCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "editlog.yaml"
	}
	return filepath.Join(dir, "editlog", "editlog.yaml")
}

// openChangelog canonicalizes the target path once, at the boundary, so
// every journal operation derives the same log directories.
func openChangelog(path string) (*core.Changelog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return core.New(abs, core.WithDebug(cfg.Debug)), nil
}

func parsePos(s string) (int64, error) {
	pos, err := strconv.ParseInt(s, 10, 64)
	if err != nil || pos < 0 {
		return 0, fmt.Errorf("invalid position %q", s)
	}
	return pos, nil
}

func parseHexByte(s string) (byte, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("byte must be two hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

func parseChar(s string) (rune, error) {
	r, sz := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || sz != len(s) {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	return r, nil
}

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Journal the inverse of an edit already made to a file",
		Long: "Journal an edit after the fact: the file already carries the change, " +
			"and editlog writes the records that will undo it. Recording a fresh " +
			"edit invalidates and purges any pending redo history.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add-char <file> <pos>",
			Short: "Journal a character insertion at a byte offset",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := openChangelog(args[0])
				if err != nil {
					return err
				}
				pos, err := parsePos(args[1])
				if err != nil {
					return err
				}
				return c.RecordCharacterAdd(pos)
			},
		},
		&cobra.Command{
			Use:   "rm-char <file> <pos> <char>",
			Short: "Journal a character removal at a byte offset",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := openChangelog(args[0])
				if err != nil {
					return err
				}
				pos, err := parsePos(args[1])
				if err != nil {
					return err
				}
				r, err := parseChar(args[2])
				if err != nil {
					return err
				}
				return c.RecordCharacterRemove(pos, r)
			},
		},
		&cobra.Command{
			Use:   "add-byte <file> <pos>",
			Short: "Journal a raw single-byte insertion",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := openChangelog(args[0])
				if err != nil {
					return err
				}
				pos, err := parsePos(args[1])
				if err != nil {
					return err
				}
				return c.RecordByteAdd(pos)
			},
		},
		&cobra.Command{
			Use:   "rm-byte <file> <pos> <hex>",
			Short: "Journal a raw single-byte removal",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := openChangelog(args[0])
				if err != nil {
					return err
				}
				pos, err := parsePos(args[1])
				if err != nil {
					return err
				}
				b, err := parseHexByte(args[2])
				if err != nil {
					return err
				}
				return c.RecordByteRemove(pos, b)
			},
		},
		&cobra.Command{
			Use:   "edit <file> <pos> <prev-hex>",
			Short: "Journal an in-place byte overwrite, given the replaced value",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := openChangelog(args[0])
				if err != nil {
					return err
				}
				pos, err := parsePos(args[1])
				if err != nil {
					return err
				}
				prev, err := parseHexByte(args[2])
				if err != nil {
					return err
				}
				return c.RecordByteEdit(pos, prev)
			},
		},
	)
	return cmd
}

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <file>",
		Short: "Apply and consume the newest undo record set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openChangelog(args[0])
			if err != nil {
				return err
			}
			if err := c.Undo(); err != nil {
				if errors.Is(err, core.ErrEmptyStack) {
					fmt.Println("nothing to undo")
					return nil
				}
				return err
			}
			fmt.Println("undone")
			return nil
		},
	}
}

func redoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo <file>",
		Short: "Apply and consume the newest redo record set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openChangelog(args[0])
			if err != nil {
				return err
			}
			if err := c.Redo(); err != nil {
				if errors.Is(err, core.ErrEmptyStack) {
					fmt.Println("nothing to redo")
					return nil
				}
				return err
			}
			fmt.Println("redone")
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	var redo bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a file's pending records in the order they would apply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openChangelog(args[0])
			if err != nil {
				return err
			}
			dir := core.PrimaryDir(c.TargetPath)
			if redo {
				dir = core.SecondaryDir(c.TargetPath)
			}
			entries, err := c.Entries(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Printf("%s stack is empty\n", dir.Role)
				return nil
			}
			for _, e := range entries {
				rec := e.Record
				if rec.Kind.HasByte() {
					fmt.Printf("%-8s %s %s %02X\n", e.Name, rec.Kind, rec.Pos.String(), rec.Byte)
				} else {
					fmt.Printf("%-8s %s %s\n", e.Name, rec.Kind, rec.Pos.String())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&redo, "redo", false, "Inspect the redo stack instead of the undo stack")
	return cmd
}

func clearRedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-redo <file>",
		Short: "Purge a file's redo history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openChangelog(args[0])
			if err != nil {
				return err
			}
			return c.ClearRedo()
		},
	}
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor <file>",
		Short: "Report journal health and sweep expired quarantine entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openChangelog(args[0])
			if err != nil {
				return err
			}

			for _, dir := range []core.Dir{core.PrimaryDir(c.TargetPath), core.SecondaryDir(c.TargetPath)} {
				entries, err := c.Entries(dir)
				if err != nil {
					fmt.Printf("%s: UNHEALTHY: %v\n", dir.Role, err)
					continue
				}
				fmt.Printf("%s: %d record(s)\n", dir.Role, len(entries))
			}

			root := core.QuarantineRoot(c.TargetPath)
			retention := time.Duration(cfg.Quarantine.RetentionDays) * 24 * time.Hour
			removed := quarantine.Sweep(root, retention)
			if removed > 0 {
				fmt.Printf("quarantine: swept %d entry(ies) older than %d days\n",
					removed, cfg.Quarantine.RetentionDays)
			}
			qEntries, err := os.ReadDir(root)
			if err != nil && !os.IsNotExist(err) {
				return err
			}
			fmt.Printf("quarantine: %d entry(ies) retained\n", len(qEntries))
			return nil
		},
	}
}
