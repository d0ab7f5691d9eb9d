package models

// Post is a blog/article card on the landing page.
type Post struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

// Review is a LinkedIn-style recommendation card.
type Review struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url,omitempty"`
}

// Tutorial is one entry in the tutorial library.
type Tutorial struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Difficulty  string   `json:"difficulty"`
	Duration    string   `json:"duration"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
}
