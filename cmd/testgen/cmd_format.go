package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nbenliogludev/go-testcase-generator/internal/formatter"
)

var formatCmd = &cobra.Command{
	Use:   "format [FILE]",
	Short: "Format Java source from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFormat,
}

func runFormat(cmd *cobra.Command, args []string) error {
	var (
		src []byte
		err error
	)
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	cfg, log, err := loadBase("console")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	chain := newChain(cfg, formatter.NewJavaFormatter(), log)
	out := chain.Format(cmd.Context(), string(src))
	if out.Degraded() {
		log.Warn("source was not fully formatted", zap.String("stage", string(out.Stage)))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), ensureNewline(out.Code))
	return err
}
