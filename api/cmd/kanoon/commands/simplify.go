package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kanoon-saral/api/internal/presenter"
	"kanoon-saral/api/internal/util"
)

// simplify --text "..." | --file path|- | --image path [--export out.txt]
func simplifyCmd() *cobra.Command {
	var (
		text    string
		file    string
		image   string
		export  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "simplify",
		Short: "Simplify a legal document given as text, a text file or an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := submission(cmd, text, file, image)
			if err != nil {
				return err
			}
			cfg, log, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			med, err := newMediator(cfg, log)
			if err != nil {
				return err
			}

			m := presenter.NewMachine()
			if err := m.Submit(sub); err != nil {
				return errors.New(presenter.Notice(err))
			}
			ctx, cancel := withTimeout(cmd.Context(), timeout)
			defer cancel()
			res, err := m.Process(ctx, med)
			if err != nil {
				log.Error("simplify", "err", err)
				return errors.New(presenter.Notice(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Simplified)
			fmt.Fprintln(out)
			fmt.Fprintln(out, presenter.Summary(res))

			if export != "" {
				if err := os.WriteFile(export, []byte(presenter.ExportText(res)), 0o644); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", export)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "document text")
	cmd.Flags().StringVar(&file, "file", "", "read document text from a file, or - for stdin")
	cmd.Flags().StringVar(&image, "image", "", "JPG or PNG image of the document")
	cmd.Flags().StringVar(&export, "export", "", "also write original and simplified text to this file (e.g. "+presenter.ExportFilename+")")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 waits for the provider)")
	cmd.MarkFlagsMutuallyExclusive("text", "file", "image")
	cmd.MarkFlagsOneRequired("text", "file", "image")
	return cmd
}

func submission(cmd *cobra.Command, text, file, image string) (presenter.Submission, error) {
	switch {
	case image != "":
		data, err := os.ReadFile(image)
		if err != nil {
			return presenter.Submission{}, err
		}
		return presenter.ImageSubmission(data, mimeFor(image, data), filepath.Base(image)), nil
	case file != "":
		data, err := readAllFrom(file, cmd.InOrStdin())
		if err != nil {
			return presenter.Submission{}, err
		}
		return presenter.TextSubmission(string(data)), nil
	default:
		return presenter.TextSubmission(text), nil
	}
}

// mimeFor trusts the file's bytes first and its extension second.
func mimeFor(path string, data []byte) string {
	if m := util.SniffImageMIME(data); m != "" {
		return m
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return util.MimeJPEG
	case ".png":
		return util.MimePNG
	}
	return http.DetectContentType(data)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
