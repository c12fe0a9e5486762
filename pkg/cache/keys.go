package cache

// keyVersion is mixed into every hashed key; bump it when the cached
// encodings change.
const keyVersion = 1

// Keyer turns content hashes and option sets into cache keys.
type Keyer interface {
	// LayoutKey keys a positioned graph computed from the graph with the
	// given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// LevelsKey keys a coarsening report of the graph with the given hash.
	LevelsKey(graphHash string, opts LevelsKeyOpts) string

	// ArtifactKey keys one rendered output of a positioned graph.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every option that changes a computed layout.
type LayoutKeyOpts struct {
	Coarsener      string  `json:"coarsener"`
	MinNodes       int     `json:"min_nodes"`
	Factor         float64 `json:"factor"`
	Base           int     `json:"base"`
	Layout         string  `json:"layout"`
	FinalLayout    string  `json:"final_layout"`
	Placer         string  `json:"placer"`
	Jitter         float64 `json:"jitter"`
	PostLayout     string  `json:"post_layout"`
	PostMode       string  `json:"post_mode"`
	PostN          int     `json:"post_n"`
	PostTimeFactor float64 `json:"post_time_factor"`
	Scaling        string  `json:"scaling"`
	MinScale       float64 `json:"min_scale"`
	MaxScale       float64 `json:"max_scale"`
	ExtraSteps     int     `json:"extra_steps"`
	DesiredLength  float64 `json:"desired_length"`
	MaxLevels      int     `json:"max_levels"`
	OnLevelBound   string  `json:"on_level_bound"`
	Randomize      bool    `json:"randomize"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Seed           uint64  `json:"seed"`
	FoldWeights    bool    `json:"fold_weights"`
}

// LevelsKeyOpts lists every option that changes a coarsening report.
type LevelsKeyOpts struct {
	Coarsener    string  `json:"coarsener"`
	MinNodes     int     `json:"min_nodes"`
	Factor       float64 `json:"factor"`
	Base         int     `json:"base"`
	MaxLevels    int     `json:"max_levels"`
	OnLevelBound string  `json:"on_level_bound"`
	Seed         uint64  `json:"seed"`
	FoldWeights  bool    `json:"fold_weights"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Labels bool    `json:"labels"`
	Scale  float64 `json:"scale"`
}

// DefaultKeyer hashes the inputs with SHA-256 under a kind prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, graphHash, opts)
}

// LevelsKey implements [Keyer].
func (DefaultKeyer) LevelsKey(graphHash string, opts LevelsKeyOpts) string {
	return hashKey("levels", keyVersion, graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, layoutHash, opts)
}
