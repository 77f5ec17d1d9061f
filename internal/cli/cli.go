// Package cli implements the hongdown command: it routes input documents
// through the formatter and owns every user-facing concern the core stays
// free of — flags, logging, diffs and exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CrazyForks/hongdown/internal/config"
	"github.com/CrazyForks/hongdown/internal/fsutil"
	"github.com/CrazyForks/hongdown/internal/markdown"
)

// errDiffers marks the --check outcome: files need formatting, nothing
// actually failed. It maps to exit code 1 without an error message.
var errDiffers = errors.New("files are not formatted")

const stdinName = "<standard input>"

type options struct {
	write      bool
	check      bool
	diff       bool
	configPath string
	verbose    bool
}

// New builds the root command.
func New() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "hongdown [files...]",
		Short: "Format Markdown files under a consistent house style",
		Long: `Hongdown re-renders Markdown documents into a canonical form: setext
headings, tilde code fences, aligned tables and uniform list markers.
Settings come from the nearest .hongdown.toml, found by walking from the
document's directory toward the filesystem root.

Without file arguments hongdown reads from standard input and writes the
formatted document to standard output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			logrus.SetOutput(cmd.ErrOrStderr())
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "write the result back to the source file instead of stdout")
	flags.BoolVarP(&opts.check, "check", "l", false, "list files whose formatting differs and exit 1 when any do")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "print a unified diff instead of the formatted text")
	flags.StringVar(&opts.configPath, "config", "", "settings file to use instead of discovering "+config.FileName)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// Execute runs the command and returns the process exit code: 0 on
// success, 1 when --check found unformatted files, 2 on errors.
func Execute() int {
	if err := New().Execute(); err != nil {
		if errors.Is(err, errDiffers) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "hongdown:", err)
		return 2
	}
	return 0
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	if len(args) == 0 {
		if opts.write {
			return errors.New("cannot use --write with standard input")
		}
		return processStdin(cmd, opts)
	}

	changed := false
	for _, path := range args {
		fileChanged, err := processFile(cmd, path, opts)
		if err != nil {
			return err
		}
		changed = changed || fileChanged
	}
	if opts.check && changed {
		return errDiffers
	}
	return nil
}

func processStdin(cmd *cobra.Command, opts *options) error {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read standard input: %w", err)
	}

	startDir, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(startDir, opts)
	if err != nil {
		return err
	}

	source := fsutil.Decode(raw)
	formatted := markdown.Format([]byte(source), cfg)
	return report(cmd, stdinName, source, formatted, opts)
}

func processFile(cmd *cobra.Command, path string, opts *options) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if !fsutil.IsText(raw) {
		return false, fmt.Errorf("%s: does not look like a text file", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	cfg, err := loadConfig(filepath.Dir(absPath), opts)
	if err != nil {
		return false, err
	}

	source := fsutil.Decode(raw)
	formatted := markdown.Format([]byte(source), cfg)
	changed := formatted != source
	if !changed {
		logrus.Debugf("%s already formatted", path)
		return false, nil
	}
	logrus.Debugf("%s needs formatting", path)

	if opts.write {
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return false, fmt.Errorf("write %s: %w", path, err)
		}
		return true, nil
	}
	return true, report(cmd, path, source, formatted, opts)
}

// report emits the outcome for one document in the selected mode.
func report(cmd *cobra.Command, name, source, formatted string, opts *options) error {
	out := cmd.OutOrStdout()
	switch {
	case opts.check:
		if formatted != source {
			fmt.Fprintln(out, name)
		}
		if name == stdinName && formatted != source {
			return errDiffers
		}
		return nil
	case opts.diff:
		if formatted == source {
			return nil
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(source),
			B:        difflib.SplitLines(formatted),
			FromFile: name + ".orig",
			ToFile:   name,
			Context:  3,
		})
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, text)
		return err
	default:
		_, err := io.WriteString(out, formatted)
		return err
	}
}

func loadConfig(startDir string, opts *options) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	cfg, path, err := config.Discover(startDir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logrus.Debugf("using settings from %s", path)
	} else {
		logrus.Debug("no settings file found, using defaults")
	}
	return cfg, nil
}
