package application

// Result is the success/warning/error envelope handed to UI layers.
// Store operations never panic past this boundary.
type Result struct {
	Success bool         `json:"success"`
	Warning string       `json:"warning,omitempty"`
	Error   string       `json:"error,omitempty"`
	Storage *StorageInfo `json:"storageInfo,omitempty"`
}

// NewResult builds a Result from an operation's warning and error
func NewResult(warning string, storage *StorageInfo, err error) Result {
	if err != nil {
		return Result{Success: false, Error: UserMessage(err), Storage: storage}
	}
	return Result{Success: true, Warning: warning, Storage: storage}
}

// Notice returns the text a UI should display, and whether it is an error
func (r Result) Notice() (string, bool) {
	if !r.Success {
		return r.Error, true
	}
	return r.Warning, false
}
