package models

// QuotesRequest asks for a batch snapshot of named instruments.
type QuotesRequest struct {
	Symbols string `query:"symbols" validate:"required"`
	Date    string `query:"date" validate:"omitempty,len=8,numeric"`
}

// WeakestSectorsRequest asks for the N weakest sectors by range position.
type WeakestSectorsRequest struct {
	N         int  `query:"n" default:"3" validate:"min=1,max=11"`
	Narrative bool `query:"narrative" default:"true"`
}

// NewsRequest asks for recent market news.
type NewsRequest struct {
	Limit int `query:"limit" default:"10" validate:"min=1,max=50"`
}
