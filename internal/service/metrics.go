package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/Janakrish1/Plan2Ship/config"
	"github.com/Janakrish1/Plan2Ship/internal/model"
	"github.com/Janakrish1/Plan2Ship/internal/storage"
)

// chartStages are the stages the external script can chart; Stage 4 output
// is imagery, not metrics.
var chartStages = map[int]bool{1: true, 2: true, 3: true, 5: true}

// MetricsService shells out to the metrics chart script, which reads the
// project JSON and writes stage-specific PNGs into the project's metrics
// directory. Its last stdout line is a JSON object listing the generated
// filenames.
type MetricsService struct {
	cfg   *config.Config
	store *storage.Store
}

func NewMetricsService(cfg *config.Config, store *storage.Store) *MetricsService {
	return &MetricsService{cfg: cfg, store: store}
}

// GenerateCharts runs the script for each requested stage and records the
// generated filenames on the project. A stage whose script run fails is
// logged and skipped; the remaining stages still run.
func (s *MetricsService) GenerateCharts(ctx context.Context, projectID string, stages []int) (*model.Project, error) {
	project, err := s.store.Get(projectID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		stages = []int{1, 2, 3, 5}
	}
	// Reject the whole request before any script runs so a bad stage in the
	// list cannot leave partial output behind.
	for _, stage := range stages {
		if !chartStages[stage] {
			return nil, fmt.Errorf("%w: charts support stages 1, 2, 3, 5", ErrInvalidStage)
		}
	}

	dataPath := filepath.Join(s.cfg.Data.ProjectsDir, projectID+".json")
	outputDir := s.store.UploadPath(projectID, "metrics")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	charts := project.MetricsCharts
	if charts == nil {
		charts = &model.MetricsCharts{}
	}
	for _, stage := range stages {
		generated, err := s.runScript(ctx, stage, dataPath, outputDir)
		if err != nil {
			klog.Errorf("metrics charts for stage %d skipped: %v", stage, err)
			continue
		}
		switch stage {
		case 1:
			charts.Stage1 = generated
		case 2:
			charts.Stage2 = generated
		case 3:
			charts.Stage3 = generated
		case 5:
			charts.Stage5 = generated
		}
	}
	project.MetricsCharts = charts

	if err := s.store.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

type chartScriptOutput struct {
	Generated []string `json:"generated"`
}

func (s *MetricsService) runScript(ctx context.Context, stage int, dataPath, outputDir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, s.cfg.Charts.Interpreter, s.cfg.Charts.ScriptPath,
		"--stage", strconv.Itoa(stage),
		"--data", dataPath,
		"--output-dir", outputDir,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return nil, fmt.Errorf("metrics script failed: %s: %w", msg, err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	lastLine := lines[len(lines)-1]

	var out chartScriptOutput
	if err := json.Unmarshal([]byte(lastLine), &out); err != nil {
		klog.V(6).Infof("metrics script stdout not parseable, assuming no charts: %v", err)
		return []string{}, nil
	}
	return out.Generated, nil
}
