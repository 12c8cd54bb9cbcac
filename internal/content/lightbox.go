package content

// Lightbox pages through one review's images. Navigation wraps around.
type Lightbox struct {
	images []string
	index  int
}

// NewLightbox opens images at index; out-of-range indexes wrap.
func NewLightbox(images []string, index int) *Lightbox {
	lb := &Lightbox{images: images}
	lb.index = lb.wrap(index)
	return lb
}

// Current returns the image shown, or "" when there are none.
func (lb *Lightbox) Current() string {
	if len(lb.images) == 0 {
		return ""
	}
	return lb.images[lb.index]
}

// Index returns the position of the current image.
func (lb *Lightbox) Index() int { return lb.index }

// Len returns the number of images.
func (lb *Lightbox) Len() int { return len(lb.images) }

// NextIndex and PrevIndex are the neighbours of the current image, used to
// render navigation links.
func (lb *Lightbox) NextIndex() int { return lb.wrap(lb.index + 1) }
func (lb *Lightbox) PrevIndex() int { return lb.wrap(lb.index - 1) }

func (lb *Lightbox) wrap(i int) int {
	n := len(lb.images)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}
