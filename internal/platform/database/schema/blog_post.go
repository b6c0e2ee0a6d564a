package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table          string
	ID             string
	Title          string
	Slug           string
	Content        string
	Excerpt        string
	FeaturedImage  string
	Status         string
	SEOTitle       string
	SEODescription string
	Views          string
	AuthorID       string
	CategoryID     string
	PublishedAt    string
	CreatedAt      string
	UpdatedAt      string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:          "blog.post",
	ID:             "id",
	Title:          "title",
	Slug:           "slug",
	Content:        "content",
	Excerpt:        "excerpt",
	FeaturedImage:  "featuredimage",
	Status:         "status",
	SEOTitle:       "seotitle",
	SEODescription: "seodescription",
	Views:          "views",
	AuthorID:       "authorid",
	CategoryID:     "categoryid",
	PublishedAt:    "publishedat",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}
