// Package content holds the static marketing sections of the storefront.
package content

import "time"

// Review is a customer review shown in the reviews section.
type Review struct {
	ID       string
	UserName string
	Avatar   string
	Rating   int
	Comment  string
	Images   []string
	Date     time.Time
}

// FormattedDate renders the review date as dd/mm/yyyy.
func (r Review) FormattedDate() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format("02/01/2006")
}

// Stars returns the rating clamped to 0..5, for rendering.
func (r Review) Stars() []bool {
	stars := make([]bool, 5)
	for i := range stars {
		stars[i] = i < r.Rating
	}
	return stars
}

// ContactInfo is one line of the contact section.
type ContactInfo struct {
	Title string
	Value string
}

// Hero is the landing banner.
type Hero struct {
	Title    string
	Subtitle string
	Image    string
}

// About is the café introduction.
type About struct {
	Heading    string
	Paragraphs []string
	Image      string
}

// Site bundles every static section.
type Site struct {
	Name    string
	Hero    Hero
	About   About
	Contact []ContactInfo
	Reviews []Review
}

func date(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

// Default returns the café's static content.
func Default() Site {
	return Site{
		Name: "Café Sáng",
		Hero: Hero{
			Title:    "Café Sáng",
			Subtitle: "Hương vị cà phê Việt trong từng khoảnh khắc",
			Image:    "https://images.pexels.com/photos/302899/pexels-photo-302899.jpeg",
		},
		About: About{
			Heading: "Về chúng tôi",
			Paragraphs: []string{
				"Café Sáng mang đến những ly cà phê được pha từ hạt rang xay mỗi ngày.",
				"Không gian yên tĩnh, thân thiện, phù hợp để làm việc và gặp gỡ bạn bè.",
			},
			Image: "https://images.pexels.com/photos/1307698/pexels-photo-1307698.jpeg",
		},
		Contact: []ContactInfo{
			{Title: "Điện thoại", Value: "(028) 1234 5678"},
			{Title: "Email", Value: "hello@cafesang.com"},
			{Title: "Địa chỉ", Value: "123 Đường Nguyễn Văn A, Quận 1, TP.HCM"},
			{Title: "Giờ mở cửa", Value: "T2-CN: 6:00 - 22:00"},
		},
		Reviews: []Review{
			{
				ID: "rv-01", UserName: "Phạm Đại Minh Quân", Rating: 5,
				Comment: "Quán không gian thoải mái, nước uống rất ngon, giá rẻ, quán nhiệt tình, vui vẻ",
				Images:  []string{"https://images.pexels.com/photos/1813466/pexels-photo-1813466.jpeg"},
				Date:    date("2025-03-12"),
			},
			{
				ID: "rv-02", UserName: "Quang Hưng Nguyễn", Rating: 4,
				Comment: "Quán không gian thoải mái. Đồ uống cũng ổn",
				Images: []string{
					"https://images.pexels.com/photos/1855214/pexels-photo-1855214.jpeg",
					"https://images.pexels.com/photos/2074130/pexels-photo-2074130.jpeg",
					"https://images.pexels.com/photos/1024359/pexels-photo-1024359.jpeg",
				},
				Date: date("2025-04-02"),
			},
			{
				ID: "rv-03", UserName: "Trà My", Rating: 5,
				Comment: "Nhân viên rất nhiệt tình, cà phê ngon và có nhiều góc sống ảo.",
				Date:    date("2025-01-22"),
			},
		},
	}
}

// Review looks up a review by ID.
func (s Site) Review(id string) (Review, bool) {
	for _, r := range s.Reviews {
		if r.ID == id {
			return r, true
		}
	}
	return Review{}, false
}
