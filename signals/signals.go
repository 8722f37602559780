package signals

// SignalSet is the flat feature set derived from one document. It is built
// once per analysis and read by every scorer; nothing mutates it afterwards.
type SignalSet struct {
	// Document basics
	HasTitle              bool `json:"hasTitle"`
	TitleLength           int  `json:"titleLength"`
	HasMetaDescription    bool `json:"hasMetaDescription"`
	MetaDescriptionLength int  `json:"metaDescriptionLength"`

	// Headings
	H1Count              int  `json:"h1Count"`
	H2Count              int  `json:"h2Count"`
	H3Count              int  `json:"h3Count"`
	QuestionHeadingCount int  `json:"questionHeadingCount"`
	HasHeadingListFlow   bool `json:"hasHeadingListFlow"` // h2 -> h3 -> list in document order

	// Body text
	WordCount         int `json:"wordCount"`
	ParagraphCount    int `json:"paragraphCount"`
	AvgParagraphWords int `json:"avgParagraphWords"`
	StatisticCount    int `json:"statisticCount"`
	QuotationCount    int `json:"quotationCount"`

	// Lists, tables, media
	ListCount        int `json:"listCount"`
	OrderedListCount int `json:"orderedListCount"`
	TableCount       int `json:"tableCount"`
	ImageCount       int `json:"imageCount"`
	ImagesWithAlt    int `json:"imagesWithAlt"`
	VideoCount       int `json:"videoCount"`

	// Structured data
	JSONLDCount           int  `json:"jsonLdCount"`
	HasFAQSchema          bool `json:"hasFaqSchema"`
	HasArticleSchema      bool `json:"hasArticleSchema"`
	HasBlogPostingSchema  bool `json:"hasBlogPostingSchema"`
	HasHowToSchema        bool `json:"hasHowToSchema"`
	HasOrganizationSchema bool `json:"hasOrganizationSchema"`
	HasPersonSchema       bool `json:"hasPersonSchema"`
	HasOpenGraph          bool `json:"hasOpenGraph"`

	// Authorship and freshness
	HasAuthor            bool `json:"hasAuthor"`
	HasAuthorCredentials bool `json:"hasAuthorCredentials"`
	HasDateElement       bool `json:"hasDateElement"`
	HasRecentDate        bool `json:"hasRecentDate"`
	HasUpdateSignal      bool `json:"hasUpdateSignal"`

	// Links
	InternalLinkCount      int `json:"internalLinkCount"`
	ExternalLinkCount      int `json:"externalLinkCount"`
	PrimarySourceLinkCount int `json:"primarySourceLinkCount"`
}

// ContentProfile selects between the blog and general-website scoring paths.
// It is resolved once, right after extraction, and passed down as a value;
// scorers dispatch on it instead of threading a boolean through every call.
type ContentProfile int

const (
	ProfileBlog ContentProfile = iota
	ProfileGeneralSite
)

func (p ContentProfile) String() string {
	if p == ProfileGeneralSite {
		return "general_site"
	}
	return "blog"
}

// ClassifyProfile decides whether a document reads as a personal blog post
// or a general website. Article-style markup wins over everything else;
// organization markup without article markup reads as a site.
func ClassifyProfile(s SignalSet) ContentProfile {
	if s.HasArticleSchema || s.HasBlogPostingSchema {
		return ProfileBlog
	}
	if s.HasOrganizationSchema {
		return ProfileGeneralSite
	}
	if s.WordCount >= 500 && s.ParagraphCount >= 4 {
		return ProfileBlog
	}
	return ProfileGeneralSite
}
