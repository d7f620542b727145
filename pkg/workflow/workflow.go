// Package workflow wires the fairness lab end to end: load and split the
// data, train the baseline classifier, audit disparity across age groups,
// sweep the constrained grid search, filter the dominance frontier, and
// publish artifacts and dashboards through the platform store. Every stage
// is an explicit function over values; nothing lives in package state.
package workflow

import (
	"context"
	"encoding"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/config"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/data"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/fairness"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/model"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/pipeline"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/platform"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/stats"
	"github.com/deepchokshi/mslearn-aml-labs/pkg/viz"
)

// Audit is the fairness read-out for one model on the test split.
type Audit struct {
	SelectionRate *fairness.Summary
	Recall        *fairness.Summary
	Accuracy      float64
	Disparity     float64 // selection-rate spread across age groups
}

// Outcome collects everything a run produced.
type Outcome struct {
	RunID                 string
	BaselineModelID       string
	AgelessModelID        string // set only when train_without_sensitive
	BaselineDashboardID   string
	ComparisonDashboardID string

	BaselineAudit *Audit
	AgelessAudit  *Audit

	Results          []fairness.Result
	Frontier         []int
	FrontierModelIDs []string
}

// PrepareSplit shuffles the dataset into train/test halves and standardizes
// the features, fitting the scaler on the training half only.
func PrepareSplit(ds *data.Dataset, cfg *config.Config) *data.Split {
	split := data.TrainTestSplit(ds, cfg.TestRatio, cfg.Seed)
	pipe := pipeline.NewPipeline(stats.NewStandardScaler())
	split.XTrain = pipe.FitTransform(split.XTrain, split.YTrain)
	split.XTest = pipe.Transform(split.XTest)
	return split
}

// TrainClassifier fits a logistic regression on the training half.
func TrainClassifier(split *data.Split, mc config.ModelConfig) (*model.LogisticRegression, error) {
	if len(split.XTrain) == 0 {
		return nil, fmt.Errorf("train classifier: empty training split")
	}
	m := model.NewLogisticRegression(len(split.XTrain[0]), mc.LearningRate, mc.Epochs, mc.BatchSize)
	if err := m.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("train classifier: %w", err)
	}
	return m, nil
}

// AuditModel predicts on the test half and summarizes selection rate and
// recall overall and per age group. Both age groups must be present.
func AuditModel(m model.Predictor, split *data.Split) (*Audit, []float64, error) {
	pred := m.Predict(split.XTest)

	sel, err := fairness.GroupSummary(model.SelectionRate, split.YTest, pred, split.GroupsTest,
		data.GroupOver50, data.GroupUnder50)
	if err != nil {
		return nil, nil, fmt.Errorf("selection rate summary: %w", err)
	}
	rec, err := fairness.GroupSummary(model.Recall, split.YTest, pred, split.GroupsTest,
		data.GroupOver50, data.GroupUnder50)
	if err != nil {
		return nil, nil, fmt.Errorf("recall summary: %w", err)
	}

	return &Audit{
		SelectionRate: sel,
		Recall:        rec,
		Accuracy:      model.Accuracy(split.YTest, pred),
		Disparity:     sel.Difference(),
	}, pred, nil
}

// RegisterModel serializes the model, writes it as a transient file under
// outputDir, and registers the blob with the store.
func RegisterModel(ctx context.Context, store *platform.Store, outputDir, name string, m encoding.BinaryMarshaler) (string, error) {
	blob, err := m.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize model %q: %w", name, err)
	}
	path := filepath.Join(outputDir, name+".json")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("write model file %s: %w", path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read model file %s: %w", path, err)
	}
	return store.RegisterModel(ctx, name, raw)
}

// Run executes the whole pipeline. The tracking run is always marked
// complete, even when a later stage fails.
func Run(ctx context.Context, cfg *config.Config, store *platform.Store, logger *zap.Logger) (*Outcome, error) {
	logger.Info("loading dataset", zap.String("path", cfg.DataPath))
	ds, err := data.Load(cfg.DataPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset loaded", zap.Int("rows", ds.Len()), zap.Int("features", len(ds.Features)))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	split := PrepareSplit(ds, cfg)

	baseline, err := TrainClassifier(split, cfg.Model)
	if err != nil {
		return nil, err
	}
	baselineAudit, basePred, err := AuditModel(baseline, split)
	if err != nil {
		return nil, err
	}
	logger.Info("baseline audit",
		zap.Float64("accuracy", baselineAudit.Accuracy),
		zap.Float64("disparity", baselineAudit.Disparity))

	baselineID, err := RegisterModel(ctx, store, cfg.OutputDir, "diabetes_logistic", baseline)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		BaselineModelID: baselineID,
		BaselineAudit:   baselineAudit,
	}

	run, err := store.StartRun(ctx, "fairness-diabetes")
	if err != nil {
		return nil, err
	}
	outcome.RunID = run.ID
	defer func() {
		// The run record is closed no matter how the rest of the pipeline
		// ends; otherwise a failed upload would orphan it in-progress.
		if cerr := run.Complete(context.WithoutCancel(ctx)); cerr != nil {
			logger.Warn("completing tracking run", zap.Error(cerr))
		}
	}()

	dashboard := &platform.Dashboard{
		YTrue:              split.YTest,
		SensitiveFeature:   split.GroupsTest,
		PredictionsByModel: map[string][]float64{baselineID: basePred},
	}

	if cfg.TrainWithoutSensitive {
		dsNoAge, err := ds.WithoutFeature(data.AgeColumn)
		if err != nil {
			return nil, err
		}
		// Same seed, so both splits partition the rows identically.
		agelessSplit := PrepareSplit(dsNoAge, cfg)
		ageless, err := TrainClassifier(agelessSplit, cfg.Model)
		if err != nil {
			return nil, err
		}
		agelessAudit, agelessPred, err := AuditModel(ageless, agelessSplit)
		if err != nil {
			return nil, err
		}
		agelessID, err := RegisterModel(ctx, store, cfg.OutputDir, "diabetes_logistic_ageless", ageless)
		if err != nil {
			return nil, err
		}
		logger.Info("ageless audit",
			zap.Float64("accuracy", agelessAudit.Accuracy),
			zap.Float64("disparity", agelessAudit.Disparity))
		dashboard.PredictionsByModel[agelessID] = agelessPred
		outcome.AgelessModelID = agelessID
		outcome.AgelessAudit = agelessAudit
	}

	outcome.BaselineDashboardID, err = store.UploadDashboard(ctx, run.ID, dashboard)
	if err != nil {
		return nil, err
	}

	logger.Info("running constrained grid search",
		zap.Int("grid_size", cfg.Grid.Size), zap.Float64("grid_limit", cfg.Grid.Limit))
	grid := fairness.GridSearch{
		NewEstimator: func() model.WeightedModel {
			return model.NewLogisticRegression(len(split.XTrain[0]),
				cfg.Model.LearningRate, cfg.Model.Epochs, cfg.Model.BatchSize)
		},
		GridSize:  cfg.Grid.Size,
		GridLimit: cfg.Grid.Limit,
	}
	cands, err := grid.Fit(split.XTrain, split.YTrain, split.GroupsTrain)
	if err != nil {
		return nil, err
	}

	outcome.Results, err = fairness.Evaluate(cands, split.XTest, split.YTest, split.GroupsTest)
	if err != nil {
		return nil, err
	}
	outcome.Frontier = fairness.DominanceFilter(outcome.Results)
	logger.Info("dominance frontier",
		zap.Int("candidates", len(outcome.Results)),
		zap.Int("retained", len(outcome.Frontier)))

	comparison := &platform.Dashboard{
		YTrue:              split.YTest,
		SensitiveFeature:   split.GroupsTest,
		PredictionsByModel: map[string][]float64{},
	}
	for _, i := range outcome.Frontier {
		marshaler, ok := outcome.Results[i].Model.(encoding.BinaryMarshaler)
		if !ok {
			return nil, fmt.Errorf("candidate %d is not serializable", i)
		}
		id, err := RegisterModel(ctx, store, cfg.OutputDir,
			fmt.Sprintf("diabetes_mitigated_%02d", i), marshaler)
		if err != nil {
			return nil, err
		}
		comparison.PredictionsByModel[id] = outcome.Results[i].Model.Predict(split.XTest)
		outcome.FrontierModelIDs = append(outcome.FrontierModelIDs, id)
	}
	outcome.ComparisonDashboardID, err = store.UploadDashboard(ctx, run.ID, comparison)
	if err != nil {
		return nil, err
	}

	if err := viz.PlotSelectionRates(baselineAudit.SelectionRate,
		"Selection rate by age group", filepath.Join(cfg.OutputDir, "selection_rates.png")); err != nil {
		return nil, err
	}
	if err := viz.PlotFrontier(outcome.Results, outcome.Frontier,
		filepath.Join(cfg.OutputDir, "frontier.png")); err != nil {
		return nil, err
	}

	return outcome, nil
}
