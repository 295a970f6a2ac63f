// cotbench runs the chain-of-thought prompting study: dataset prep,
// response generation, answer extraction, statistical analysis, and
// report rendering.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/cot-bench/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

// load resolves the config for a command. A missing file at the default
// path falls back to defaults so ad hoc analysis works out of the box;
// an explicitly named file must exist.
func (st *cliState) load() error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		if st.configPath == config.DefaultPath && errors.Is(err, fs.ErrNotExist) {
			st.cfg = config.Default()
			return nil
		}
		return err
	}
	st.cfg = cfg
	return nil
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "cotbench",
		Short:         "Compare chain-of-thought prompting conditions on GSM8K",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newPrepareCmd(st))
	root.AddCommand(newGenerateCmd(st))
	root.AddCommand(newExtractCmd(st))
	root.AddCommand(newAnalyzeCmd(st))
	root.AddCommand(newReportCmd(st))
	root.AddCommand(newHistoryCmd(st))
	return root
}
