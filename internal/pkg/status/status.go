package status

// Stage represents a conversion job processing stage
type Stage int

const (
	// Queued - job is created and waits for the driver
	Queued Stage = iota + 1
	// Uploading value
	Uploading
	// Chunking value
	Chunking
	// Synthesizing value
	Synthesizing
	// Merging value
	Merging
	// Packaging value
	Packaging
	// Completed - terminal, result is ready
	Completed
	// Failed - terminal, job was cancelled
	Failed
)

var (
	stageName = map[Stage]string{Queued: "queued", Uploading: "uploading",
		Chunking: "chunking", Synthesizing: "synthesizing", Merging: "merging",
		Packaging: "packaging", Completed: "completed", Failed: "failed"}
	nameStage = map[string]Stage{"queued": Queued, "uploading": Uploading,
		"chunking": Chunking, "synthesizing": Synthesizing, "merging": Merging,
		"packaging": Packaging, "completed": Completed, "failed": Failed}
)

// Name returns stage name, empty string for unknown value
func Name(st Stage) string {
	return stageName[st]
}

// From parses stage name, returns 0 for unknown name
func From(st string) Stage {
	return nameStage[st]
}

func (st Stage) String() string {
	return Name(st)
}

// MarshalText writes stage as its name
func (st Stage) MarshalText() ([]byte, error) {
	return []byte(Name(st)), nil
}

// UnmarshalText reads stage from its name
func (st *Stage) UnmarshalText(b []byte) error {
	*st = From(string(b))
	return nil
}

// Terminal reports whether no driver step may follow the stage
func (st Stage) Terminal() bool {
	return st == Completed || st == Failed
}
