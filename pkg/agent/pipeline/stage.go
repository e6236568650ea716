package pipeline

type Stage string

const (
	StageIdle              Stage = "idle"
	StageValidating        Stage = "validating"
	StageGeneratingImage   Stage = "generating_image"
	StageUploadingImage    Stage = "uploading_image"
	StageUploadingMetadata Stage = "uploading_metadata"
	StageMinting           Stage = "minting"
	StageSucceeded         Stage = "succeeded"
	StageFailed            Stage = "failed"
)

var stageLabels = map[Stage]string{
	StageIdle:              "Ready",
	StageValidating:        "Validating input...",
	StageGeneratingImage:   "Generating image...",
	StageUploadingImage:    "Uploading image to IPFS...",
	StageUploadingMetadata: "Uploading metadata to IPFS...",
	StageMinting:           "Minting token, waiting for confirmation...",
	StageSucceeded:         "Token minted",
	StageFailed:            "Creation failed",
}

// Label is the progress text shown to users for the stage.
func (s Stage) Label() string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Stage) Terminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// InFlight reports whether a run in this stage holds the pipeline slot.
func (s Stage) InFlight() bool {
	return s != StageIdle && !s.Terminal()
}
