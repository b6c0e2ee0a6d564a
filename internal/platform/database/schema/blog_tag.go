package schema

// BlogTagTable represents the 'blog.tag' table
type BlogTagTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	CreatedAt string
	UpdatedAt string
}

// BlogTag is the schema definition for blog.tag
var BlogTag = BlogTagTable{
	Table:     "blog.tag",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// BlogPostTagTable represents the 'blog.posttag' junction table
type BlogPostTagTable struct {
	Table  string
	PostID string
	TagID  string
}

// BlogPostTag is the schema definition for blog.posttag
var BlogPostTag = BlogPostTagTable{
	Table:  "blog.posttag",
	PostID: "postid",
	TagID:  "tagid",
}
