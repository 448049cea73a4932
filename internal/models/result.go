package models

// RoleResult is the outcome of one role-assignment request. SimilarityScore
// is pinned to 1.0 whenever Fixed is true and 0 on the random fallback path.
type RoleResult struct {
	Team            string  `json:"team"`
	Role            string  `json:"role"`
	Code            string  `json:"code"`
	Reasoning       string  `json:"reasoning"`
	SimilarityScore float64 `json:"similarity_score"`
	Fixed           bool    `json:"fixed,omitempty"`
}

// Cluster is one group produced by balanced clustering.
type Cluster struct {
	ID          int           `json:"id"`
	Color       string        `json:"color"`
	MemberCount int           `json:"member_count"`
	Members     []ClusterNode `json:"members"`
}

// ClusterNode is a member placed in the 2-D visualization, with the axes
// rescaled to [-200, 200].
type ClusterNode struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Cluster int     `json:"cluster"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
}

// ClusterEdge links two members of the same cluster for the force graph.
// No inter-cluster edges are emitted.
type ClusterEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ClusterGraph is the force-graph payload: flat node list plus every
// intra-cluster pair.
type ClusterGraph struct {
	Nodes []ClusterNode `json:"nodes"`
	Edges []ClusterEdge `json:"edges"`
}

// ClusterResult is the full clustering response. Assignments are ephemeral
// and recomputed per request.
type ClusterResult struct {
	K             int          `json:"k"`
	Namespace     string       `json:"namespace"`
	TotalProfiles int          `json:"total_profiles"`
	Clusters      []Cluster    `json:"clusters"`
	Graph         ClusterGraph `json:"graph"`
}

// MemberMatch is one similarity hit for a member.
type MemberMatch struct {
	MemberID string            `json:"member_id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SimilarityResult carries matches plus a reason when the result is empty
// because of missing data (e.g. "no_embedding_found") rather than an error.
type SimilarityResult struct {
	Matches  []MemberMatch `json:"matches"`
	Reason   string        `json:"reason,omitempty"`
	Criteria string        `json:"criteria"`
}

// ReembedStats reports a batch re-embedding run. The batch never aborts
// early; per-profile failures are collected in Errors.
type ReembedStats struct {
	Total            int      `json:"total"`
	IntroSuccess     int      `json:"intro_success"`
	InterestsSuccess int      `json:"interests_success"`
	Errors           []string `json:"errors"`
}

// JobEmbedFailure records one catalog entry that could not be embedded.
type JobEmbedFailure struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// JobEmbedStats reports a catalog embedding run.
type JobEmbedStats struct {
	TotalJobs     int               `json:"total_jobs"`
	EmbeddedCount int               `json:"embedded_count"`
	FailedJobs    []JobEmbedFailure `json:"failed_jobs"`
}
