package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// readLine reads one line, treating the end of input as an empty answer.
func readLine(in io.Reader) (string, error) {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. An empty answer picks defaultYes.
func Confirm(in io.Reader, out io.Writer, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(out, "%s %s: ", question, hint)

	answer, err := readLine(in)
	if err != nil {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(answer) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask asks a free-form question. An empty answer picks def.
func Ask(in io.Reader, out io.Writer, question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	answer, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// EditorCommand returns the user's editor split into arguments, from
// $VISUAL, then $EDITOR, then vi.
func EditorCommand() ([]string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	args, err := shlex.Split(editor)
	if err != nil {
		return nil, fmt.Errorf("parsing editor command %q: %w", editor, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty editor command")
	}
	return args, nil
}

// Editor runs an editor command on a file.
type Editor func(args []string, path string) error

// RunEditor runs the editor attached to the terminal.
func RunEditor(args []string, path string) error {
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Edit writes initial to a temporary file with extension ext, opens it in
// the user's editor and returns the saved content.
func Edit(initial, ext string, run Editor) (string, error) {
	if run == nil {
		run = RunEditor
	}

	args, err := EditorCommand()
	if err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp("", "changelogger-")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "EDIT"+ext)
	if err := os.WriteFile(path, []byte(initial), 0o600); err != nil {
		return "", fmt.Errorf("writing temp file: %w", err)
	}

	if err := run(args, path); err != nil {
		return "", fmt.Errorf("running editor %s: %w", args[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading edited file: %w", err)
	}
	return string(data), nil
}
