package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Score a resume PDF against a job description and print the result as JSON",
	RunE:  runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringP("resume", "r", "", "path to the resume PDF")
	screenCmd.Flags().StringP("job-description", "t", "", "job description text")
	screenCmd.Flags().StringP("job-description-file", "f", "", "file holding the job description")
	screenCmd.Flags().Bool("no-cache", false, "do not read or write the cache store")

	_ = screenCmd.MarkFlagRequired("resume")
	screenCmd.MarkFlagsMutuallyExclusive("job-description", "job-description-file")
}

func runScreen(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	jsonLogs, _ := cmd.Flags().GetBool("json")
	debug, _ := cmd.Flags().GetBool("debug")
	zl, err := logger.NewStderr(jsonLogs, debug)
	if err != nil {
		return errors.Wrap(err, "creating a logger")
	}
	defer zl.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	pdfBytes, err := os.ReadFile(resumePath)
	if err != nil {
		return errors.Wrap(err, "reading resume")
	}

	jobDescription, err := readJobDescription(cmd)
	if err != nil {
		return err
	}

	resultCache := services.NewNopResultCache()
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		redisClient := config.InitRedis(ctx, cfg, zl)
		defer redisClient.Close()
		resultCache = services.NewRedisResultCache(redisClient)
	}

	backend, err := services.NewModelBackend(ctx, cfg.Model)
	if err != nil {
		return errors.Wrap(err, "initializing model backend")
	}

	metrics := services.NewMetrics()
	pipeline := services.NewPipelineService(
		services.NewPDFParserService(),
		services.NewNormalizer(cfg.Screening.MaxResumeChars),
		resultCache,
		services.NewScreenerService(backend, cfg.Model.NumCtx, metrics, zl),
		services.PipelineOptions{
			KeyPrefix:            cfg.Cache.KeyPrefix,
			TTL:                  cfg.Cache.TTL,
			RawJobDescriptionKey: cfg.Screening.RawJobDescriptionKey,
		},
		metrics,
		zl,
	)

	modelCtx, cancel := context.WithTimeout(ctx, cfg.Model.Timeout)
	defer cancel()

	result, err := pipeline.Screen(modelCtx, models.ScreeningRequest{
		ResumePDF:      pdfBytes,
		Filename:       filepath.Base(resumePath),
		JobDescription: jobDescription,
	})
	if err != nil {
		return err
	}

	zl.Debug("screening finished", zap.Any("metrics", metrics.Snapshot()))

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readJobDescription(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("job-description-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(err, "reading job description")
		}
		return string(data), nil
	}

	text, _ := cmd.Flags().GetString("job-description")
	if strings.TrimSpace(text) == "" {
		return "", errors.New("either --job-description or --job-description-file is required")
	}
	return text, nil
}
