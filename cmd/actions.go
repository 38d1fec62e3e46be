package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/export"
	"github.com/spigell/resume-matcher/internal/shortlist"
)

const (
	PromptShowDetails         = "Show details"
	PromptReportByTier        = "Report by tier"
	PromptExportXLSX          = "Export to xlsx"
	PromptToFile              = "Dump to file"
	PromptAppendToExcludeFile = "Append to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

// shortlistSession is the interactive loop over a ranked shortlist.
type shortlistSession struct {
	config  *Config
	logger  *zap.Logger
	out     io.Writer
	ranked  *shortlist.Candidates
	summary export.Summary
}

func addShortlistFlags(cmd *cobra.Command) {
	cmd.Flags().String("job", "", "job description text")
	cmd.Flags().String("job-file", "", "file with the job description (plain text or saved HTML). Takes precedence over --job")
	cmd.Flags().BoolP("auto-approve", "y", false, "do not prompt; print the ranked shortlist as JSON and exit")
	cmd.Flags().Bool("include-excluded", false, "do not drop candidates listed in the exclude file")
}

// run prints the report once when auto-approve is set, otherwise it offers
// actions until the user exits.
func (s *shortlistSession) run(cmd *cobra.Command) {
	if s.ranked.Len() == 0 {
		s.logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if auto, _ := cmd.Flags().GetBool("auto-approve"); auto {
		if err := export.ToJSON(s.out, s.ranked, s.summary); err != nil {
			s.logger.Fatal("printing report", zap.Error(err))
		}
		return
	}

	for {
		items := []string{PromptShowDetails, PromptReportByTier, PromptExportXLSX, PromptToFile}
		if s.config.Filters.ExcludeFile != "" {
			items = append(items, PromptAppendToExcludeFile)
		}
		items = append(items, PromptExit)

		prompt := promptui.Select{
			Label: "Proceed?",
			Items: items,
		}
		_, action, err := prompt.Run()
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}

		s.logger.Info("current list of candidates", zap.Int("count", s.ranked.Len()))

		if err := s.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			s.logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func (s *shortlistSession) handleAction(action string) error {
	switch action {
	case PromptShowDetails:
		return s.showDetails()
	case PromptReportByTier:
		pretty, _ := json.MarshalIndent(s.ranked.ReportByTier(), "", "  ")
		s.logger.Info(string(pretty), zap.Int("candidates count", s.ranked.Len()))
		return nil
	case PromptExportXLSX:
		path, err := export.ToExcel(s.ranked, s.summary, export.FileName(s.config.Export.Dir, s.summary))
		if err != nil {
			return fmt.Errorf("export to xlsx: %w", err)
		}
		s.logger.Info("exported shortlist", zap.String("filename", path))
		return nil
	case PromptToFile:
		filename, err := s.ranked.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		s.logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return s.appendToExcludeFile()
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *shortlistSession) showDetails() error {
	for {
		items := make([]string, 0, s.ranked.Len()+1)
		for _, cand := range s.ranked.Items {
			items = append(items, fmt.Sprintf("%s %.2f%% / %s / %s", cand.ID, cand.TotalScore, cand.Tier, cand.Name))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}
		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		id := strings.Split(selected, " ")[0]
		cand := s.ranked.FindByID(id)
		if cand == nil {
			return fmt.Errorf("there is no such candidate id %s", id)
		}

		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cand); err != nil {
			return fmt.Errorf("print candidate: %w", err)
		}
	}
}

func (s *shortlistSession) appendToExcludeFile() error {
	path := s.config.Filters.ExcludeFile

	excluded, err := shortlist.ReadExcludedFile(path)
	if err != nil {
		return err
	}

	excluded.Append(s.ranked.ToExcluded(time.Now()))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	s.logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", s.ranked.Len()))

	s.ranked.Exclude(excluded.IDs())
	if s.ranked.Len() == 0 {
		s.logger.Info("exiting", zap.String("reason", "every candidate is excluded now"))
		return errExit
	}
	return nil
}
