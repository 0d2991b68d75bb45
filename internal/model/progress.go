package model

// ProgressStatus is the status tag of an engine progress event
type ProgressStatus string

const (
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
)

// ProgressEvent is one progress notification from the engine. The string
// fields are already formatted by the engine adapter and shown verbatim.
type ProgressEvent struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64 // 0 when unknown
	TotalEstimated  bool
	PercentStr      string
	SpeedStr        string
	ETAStr          string
}
