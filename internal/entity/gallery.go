package entity

type GalleryAlbum struct {
	Base
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

type GalleryPhoto struct {
	Base
	AlbumID    string `json:"album_id"`
	UploadedBy string `json:"uploaded_by"`
	URL        string `json:"url"`
	Caption    string `json:"caption"`
}
