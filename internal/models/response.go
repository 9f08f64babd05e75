package models

import (
	"net/http"
	"time"
)

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime returns the current time in milliseconds since the epoch.
func ResponseCurrentTime() int64 {
	return time.Now().UnixMilli()
}

// NewResponse builds a version 2 response envelope.
func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK")
}

// NewEntryResponse wraps a single entry and its references.
func NewEntryResponse(entry interface{}, references ReferencesModel) ResponseModel {
	data := map[string]interface{}{
		"entry":      entry,
		"references": references,
	}
	return NewOKResponse(data)
}

// NewListResponse wraps a list and its references.
func NewListResponse(list interface{}, references ReferencesModel) ResponseModel {
	data := map[string]interface{}{
		"list":          list,
		"references":    references,
		"limitExceeded": false,
	}
	return NewOKResponse(data)
}

// NewTimetableListResponse is NewListResponse with the storage status of the
// dataset. A list that is empty because the dataset could not be read has
// storageAvailable set to false.
func NewTimetableListResponse(list interface{}, references ReferencesModel, storageAvailable bool) ResponseModel {
	data := map[string]interface{}{
		"list":             list,
		"references":       references,
		"limitExceeded":    false,
		"storageAvailable": storageAvailable,
	}
	return NewOKResponse(data)
}
