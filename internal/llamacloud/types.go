package llamacloud

// Project is a LlamaCloud project. Indexes and extraction agents are scoped to a project.
type Project struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
}

// Pipeline is the API-side name of a managed retrieval index.
type Pipeline struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
}

// RetrieveRequest is the body of a pipeline retrieval request.
type RetrieveRequest struct {
	Query string `json:"query"`
}

// TextNode is a chunk of a document stored in an index.
type TextNode struct {
	ID       string         `json:"id_"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"extra_info,omitempty"`
}

// ScoredNode is a node returned by retrieval together with its relevance score.
type ScoredNode struct {
	Node  TextNode `json:"node"`
	Score *float64 `json:"score"`
}

// RetrieveResults is the response of a pipeline retrieval request.
type RetrieveResults struct {
	RetrievalNodes []ScoredNode `json:"retrieval_nodes"`
}

// ExtractAgent is a LlamaExtract agent: a data schema plus extraction settings.
type ExtractAgent struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	ProjectID  string         `json:"project_id"`
	DataSchema map[string]any `json:"data_schema,omitempty"`
}

// File is a document uploaded to LlamaCloud.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// JobStatus is the state of an extraction job.
type JobStatus string

const (
	JobStatusPending        JobStatus = "PENDING"
	JobStatusSuccess        JobStatus = "SUCCESS"
	JobStatusPartialSuccess JobStatus = "PARTIAL_SUCCESS"
	JobStatusError          JobStatus = "ERROR"
	JobStatusCancelled      JobStatus = "CANCELLED"
)

// Done returns true once the job will not change state anymore.
func (s JobStatus) Done() bool {
	switch s {
	case JobStatusSuccess, JobStatusPartialSuccess, JobStatusError, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// ExtractJob is an asynchronous extraction of one file by one agent.
type ExtractJob struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// ExtractRun holds the outcome of a finished extraction job.
type ExtractRun struct {
	ID                 string         `json:"id"`
	JobID              string         `json:"job_id,omitempty"`
	Data               any            `json:"data"`
	ExtractionMetadata map[string]any `json:"extraction_metadata,omitempty"`
}
