package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/coverletters"
	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/llm"
	openai "coverletter-backend/internal/llm/openai"
	"coverletter-backend/internal/shared/config"
	localstore "coverletter-backend/internal/shared/storage/object/local"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the assembled prompt for a job description",
	Long:  "Extract the resume, build the cover letter prompt for the job description and print it. With --send the prompt is sent to the model and the letter printed instead.",
	RunE:  runPrompt,
}

var (
	promptResumePath string
	promptJDPath     string
	promptSend       bool
	promptSave       bool
)

func init() {
	promptCmd.Flags().StringVarP(&promptResumePath, "resume", "r", "", "Path to resume file (pdf or docx); defaults to RESUME_PATH under LOCAL_STORE_DIR")
	promptCmd.Flags().StringVarP(&promptJDPath, "jd", "j", "", "Path to job description file, or - for stdin (required)")
	promptCmd.Flags().BoolVar(&promptSend, "send", false, "Send the prompt to the model and print the letter")
	promptCmd.Flags().BoolVar(&promptSave, "save", false, "With --send, append the letter to the configured file cache")
	_ = promptCmd.MarkFlagRequired("jd")

	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jobDescription, err := readJobDescription(cmd.InOrStdin(), promptJDPath)
	if err != nil {
		return err
	}

	resumePath := promptResumePath
	if resumePath == "" {
		resumePath = filepath.Join(cfg.LocalStoreDir, cfg.ResumePath)
	}
	absResume, err := filepath.Abs(resumePath)
	if err != nil {
		return fmt.Errorf("resolve resume path: %w", err)
	}
	extractor := extract.NewResumeExtractor(localstore.New(filepath.Dir(absResume)), filepath.Base(absResume))

	out := cmd.OutOrStdout()
	if !promptSend {
		if strings.TrimSpace(jobDescription) == "" {
			return coverletters.ErrMissingInput
		}
		resumeText, err := extractor.Extract(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, llm.BuildCoverLetterPrompt(resumeText, jobDescription))
		return err
	}

	client, err := openai.NewResponsesClient(cfg.OpenAIAPIKey,
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithTimeout(cfg.OpenAITimeout),
	)
	if err != nil {
		return err
	}
	var store coverletters.Store = coverletters.NewMemoryStore()
	if promptSave {
		store = coverletters.NewFileStore(cfg.CachePath, cfg.CacheStrict)
	}
	svc := &coverletters.Service{Resume: extractor, LLM: client, Store: store}

	result, err := svc.Generate(ctx, jobDescription)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, result.CoverLetter)
	return err
}

func readJobDescription(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read job description from stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return string(raw), nil
}
