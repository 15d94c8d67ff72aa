package ml

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/wonny/sage/backend/pkg/config"
	"github.com/wonny/sage/backend/pkg/logger"
)

// ErrModelUnavailable is returned when a capability's trained artifact is
// not loaded. Callers surface a service-unavailable outcome, not a crash.
var ErrModelUnavailable = errors.New("model artifact not loaded")

// artifactSet is one immutable generation of loaded artifacts. A nil
// member means that capability is disabled.
type artifactSet struct {
	predictor   *GradePredictor
	recommender *Recommender
}

// Context owns the loaded model artifacts for the process. Artifacts are
// read-only after load; Reload swaps in a fully new set atomically, so
// concurrent Predict/Recommend calls always see a consistent generation.
// ⭐ SSOT: 모델 아티팩트 로딩/교체는 여기서만
type Context struct {
	cfg     config.ModelConfig
	recCfg  config.RecommenderConfig
	log     *logger.Logger
	current atomic.Pointer[artifactSet]
}

// NewContext creates an empty model context. Call Reload to load artifacts.
func NewContext(cfg config.ModelConfig, recCfg config.RecommenderConfig, log *logger.Logger) *Context {
	c := &Context{
		cfg:    cfg,
		recCfg: recCfg,
		log:    log.WithComponent("ml.context"),
	}
	c.current.Store(&artifactSet{})
	return c
}

// Reload loads both artifacts from disk and atomically swaps them in.
// A missing artifact file disables that capability with a warning (the
// service still starts); a present-but-invalid file is an error and the
// previous generation stays active.
func (c *Context) Reload() error {
	next := &artifactSet{}

	predictor, err := c.loadGrade()
	if err != nil {
		return err
	}
	next.predictor = predictor

	recommender, err := c.loadRecommender()
	if err != nil {
		return err
	}
	next.recommender = recommender

	c.current.Store(next)

	c.log.WithFields(map[string]interface{}{
		"grade_loaded":       predictor != nil,
		"recommender_loaded": recommender != nil,
	}).Info("model artifacts loaded")

	return nil
}

func (c *Context) loadGrade() (*GradePredictor, error) {
	if _, err := os.Stat(c.cfg.GradePath); err != nil {
		c.log.WithField("path", c.cfg.GradePath).Warn("grade artifact missing, prediction disabled")
		return nil, nil
	}

	art, err := LoadGradeArtifact(c.cfg.GradePath)
	if err != nil {
		return nil, err
	}

	return NewGradePredictor(art.Model, &art.Scaler, art.FeatureNames, c.log), nil
}

func (c *Context) loadRecommender() (*Recommender, error) {
	if _, err := os.Stat(c.cfg.RecommenderPath); err != nil {
		c.log.WithField("path", c.cfg.RecommenderPath).Warn("recommender artifact missing, recommendations disabled")
		return nil, nil
	}

	art, err := LoadRecommenderArtifact(c.cfg.RecommenderPath)
	if err != nil {
		return nil, err
	}

	return NewRecommender(art, c.log,
		WithWeights(c.recCfg.CFWeight, c.recCfg.CBWeight),
		WithNeighborK(c.recCfg.NeighborK),
	), nil
}

// GradePredictor returns the current predictor, or ErrModelUnavailable
func (c *Context) GradePredictor() (*GradePredictor, error) {
	set := c.current.Load()
	if set.predictor == nil {
		return nil, ErrModelUnavailable
	}
	return set.predictor, nil
}

// Recommender returns the current recommender, or ErrModelUnavailable
func (c *Context) Recommender() (*Recommender, error) {
	set := c.current.Load()
	if set.recommender == nil {
		return nil, ErrModelUnavailable
	}
	return set.recommender, nil
}

// Loaded reports which capabilities are currently available
func (c *Context) Loaded() (grade, recommender bool) {
	set := c.current.Load()
	return set.predictor != nil, set.recommender != nil
}
