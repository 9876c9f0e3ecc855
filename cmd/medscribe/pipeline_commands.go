package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"medscribe/internal/artifacts"
	"medscribe/internal/config"
	"medscribe/internal/pipeline"
	"medscribe/internal/soap"
)

func newIngestAudioCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest-audio <session-id> <audio-file>",
		Short: "Transcribe a consult recording into a draft transcript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				if err := p.IngestAudio(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored draft transcript for session %s\n", args[0])
				return nil
			})
		},
	}
}

func newConfirmTranscriptCommand(cmdCtx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "confirm-transcript <session-id> [text]",
		Short: "Store the clinician-reviewed transcript",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := resolveText(args, fromFile)
			if err != nil {
				return err
			}
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				if err := p.ConfirmTranscript(ctx, args[0], text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Confirmed transcript for session %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the reviewed text from a file")
	return cmd
}

func newGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	var templateKey string
	var transcriptFile string

	cmd := &cobra.Command{
		Use:   "generate <session-id>",
		Short: "Draft the structured note from the confirmed transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript := ""
			if transcriptFile != "" {
				data, err := os.ReadFile(transcriptFile)
				if err != nil {
					return fmt.Errorf("read transcript file: %w", err)
				}
				transcript = string(data)
			}
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				if err := p.GenerateDocument(ctx, args[0], templateKey, transcript); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored structured note for session %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&templateKey, "template", "t", soap.DefaultTemplateKey, "Clinical template key (see `medscribe templates`)")
	cmd.Flags().StringVar(&transcriptFile, "transcript-file", "", "Override the stored transcript with this file's contents")
	return cmd
}

func newRenderCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render <session-id>",
		Short: "Render the generated note as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				if err := p.RenderDocument(ctx, args[0]); err != nil {
					return err
				}
				if path, ok := store.GetString(ctx, args[0], artifacts.KeyPDFPath); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", path)
				}
				return nil
			})
		},
	}
}

func newIngestImageCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest-image <ocr-session-id> <image-file>",
		Short: "Recognize a scanned bill or referral",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				if err := p.IngestImage(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored recognized text for session %s\n", args[0])
				return nil
			})
		},
	}
}

func newConfirmOCRCommand(cmdCtx *commandContext) *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "confirm-ocr <ocr-session-id> [text]",
		Short: "Store the reviewed recognition text",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := resolveText(args, fromFile)
			if err != nil {
				return err
			}
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				if err := p.ConfirmOCRText(ctx, args[0], text); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Confirmed recognized text for session %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "Read the reviewed text from a file")
	return cmd
}

func newAssembleCommand(cmdCtx *commandContext) *cobra.Command {
	var ocrSessionID string

	cmd := &cobra.Command{
		Use:   "assemble <session-id>",
		Short: "Assemble the final response for a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withPipeline(cmd.Context(), func(ctx context.Context, cfg *config.Config, store *artifacts.Store, p *pipeline.Pipeline) error {
				response, err := p.AssembleFinal(ctx, args[0], strings.TrimSpace(ocrSessionID))
				if err != nil {
					return err
				}
				encoded, err := json.MarshalIndent(response, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&ocrSessionID, "ocr-session", "", "Recognition session to join into the response")
	return cmd
}

func resolveText(args []string, fromFile string) (string, error) {
	if len(args) == 2 && fromFile != "" {
		return "", errors.New("provide the text inline or with --file, not both")
	}
	if len(args) == 2 {
		return args[1], nil
	}
	if fromFile == "" {
		return "", errors.New("provide the text inline or with --file")
	}
	data, err := os.ReadFile(fromFile)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}
