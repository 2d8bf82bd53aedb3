package models

// AILog records every oracle interaction for auditing and future model
// training. Output holds the raw JSON response.
type AILog struct {
	Base
	UserID uint `gorm:"not null;index" json:"user_id"`

	InputText string `gorm:"type:text;not null" json:"input_text"`
	Endpoint  string `gorm:"size:50;not null" json:"endpoint"`
	Output    string `gorm:"type:text;not null" json:"output"`

	PredictedCategoryID *uint   `json:"predicted_category_id,omitempty"`
	Confidence          float64 `gorm:"default:0" json:"confidence"`
}
