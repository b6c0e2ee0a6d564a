package schema

// BlogMediaTable represents the 'blog.media' table
type BlogMediaTable struct {
	Table     string
	ID        string
	Filename  string
	URL       string
	Key       string
	MimeType  string
	Size      string
	UserID    string
	CreatedAt string
}

// BlogMedia is the schema definition for blog.media
var BlogMedia = BlogMediaTable{
	Table:     "blog.media",
	ID:        "id",
	Filename:  "filename",
	URL:       "url",
	Key:       "key",
	MimeType:  "mimetype",
	Size:      "size",
	UserID:    "userid",
	CreatedAt: "createdat",
}
