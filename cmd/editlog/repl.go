package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/hexbyte/editlog/core"
	"github.com/hexbyte/editlog/internal/fileedit"
)

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl <file>",
		Short: "Edit a file interactively with journaled undo/redo",
		Long: "An interactive loop that performs edits on the file and journals each " +
			"one, so undo and redo work across the session and after it ends.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openChangelog(args[0])
			if err != nil {
				return err
			}
			return runREPL(c)
		},
	}
}

func runREPL(c *core.Changelog) error {
	editor := fileedit.New()

	fmt.Printf("Editing %s\n", c.TargetPath)
	fmt.Println("Type commands. 'help' for information or 'quit' to exit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return nil
		}

		words, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "quit", "exit":
			return nil
		case "help":
			replHelp()
		case "show":
			data, err := os.ReadFile(c.TargetPath)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("%q (%d bytes)\n", data, len(data))
		case "log":
			replLog(c)
		case "add":
			replAdd(c, editor, words[1:])
		case "rm":
			replRemove(c, editor, words[1:])
		case "edit":
			replEdit(c, editor, words[1:])
		case "undo":
			replPop(c.Undo, "nothing to undo")
		case "redo":
			replPop(c.Redo, "nothing to redo")
		default:
			fmt.Printf("unknown command %q, try 'help'\n", words[0])
		}
	}
}

func replHelp() {
	fmt.Println(`add <pos> <char>   insert a character at a byte offset
rm <pos>           remove the character at a byte offset
edit <pos> <hex>   overwrite the byte at an offset
undo               undo the most recent edit
redo               redo the most recently undone edit
show               print the file contents
log                print the pending undo and redo records
quit               exit`)
}

// replAdd inserts a character's bytes in file order, then journals the
// insertion off the file state.
func replAdd(c *core.Changelog, editor *fileedit.Editor, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: add <pos> <char>")
		return
	}
	pos, err := parsePos(args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r, err := parseChar(args[1])
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	for i := 0; i < n; i++ {
		if err := editor.InsertByteAt(c.TargetPath, pos+int64(i), buf[i]); err != nil {
			fmt.Println("error:", err)
			return
		}
	}

	if err := c.RecordCharacterAdd(pos); err != nil {
		fmt.Println("error:", err)
	}
}

// replRemove reads the character at the offset before destroying it, so the
// journal can reconstruct the removed bytes.
func replRemove(c *core.Changelog, editor *fileedit.Editor, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: rm <pos>")
		return
	}
	pos, err := parsePos(args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	size, err := editor.Size(c.TargetPath)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if pos >= size {
		fmt.Printf("error: offset %d beyond file size %d\n", pos, size)
		return
	}
	window := int64(utf8.UTFMax)
	if rest := size - pos; rest < window {
		window = rest
	}
	bytes, err := editor.ReadAt(c.TargetPath, pos, int(window))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	r, sz := utf8.DecodeRune(bytes)
	if r == utf8.RuneError && sz <= 1 {
		fmt.Printf("error: byte %02X at %d does not start a character\n", bytes[0], pos)
		return
	}

	for i := 0; i < sz; i++ {
		if err := editor.RemoveByteAt(c.TargetPath, pos); err != nil {
			fmt.Println("error:", err)
			return
		}
	}

	if err := c.RecordCharacterRemove(pos, r); err != nil {
		fmt.Println("error:", err)
	}
}

// replEdit overwrites one byte in place, journaling the value it replaced.
func replEdit(c *core.Changelog, editor *fileedit.Editor, args []string) {
	if len(args) != 2 {
		fmt.Println("usage: edit <pos> <hex>")
		return
	}
	pos, err := parsePos(args[0])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	b, err := parseHexByte(args[1])
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	prev, err := editor.ReadAt(c.TargetPath, pos, 1)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := editor.OverwriteByteAt(c.TargetPath, pos, b); err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := c.RecordByteEdit(pos, prev[0]); err != nil {
		fmt.Println("error:", err)
	}
}

func replPop(pop func() error, emptyMsg string) {
	if err := pop(); err != nil {
		if errors.Is(err, core.ErrEmptyStack) {
			fmt.Println(emptyMsg)
			return
		}
		fmt.Println("error:", err)
	}
}

func replLog(c *core.Changelog) {
	for _, dir := range []core.Dir{core.PrimaryDir(c.TargetPath), core.SecondaryDir(c.TargetPath)} {
		entries, err := c.Entries(dir)
		if err != nil {
			fmt.Printf("%s: error: %v\n", dir.Role, err)
			continue
		}
		fmt.Printf("%s (%d):\n", dir.Role, len(entries))
		for _, e := range entries {
			rec := e.Record
			if rec.Kind.HasByte() {
				fmt.Printf("  %-8s %s %s %02X\n", e.Name, rec.Kind, rec.Pos.String(), rec.Byte)
			} else {
				fmt.Printf("  %-8s %s %s\n", e.Name, rec.Kind, rec.Pos.String())
			}
		}
	}
}
