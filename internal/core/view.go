package core

// View is a filtered, ordered subset of dataset rows.
type View struct {
	posts []Post
}

// Filter returns the rows of d matching sel, in source order.
func (d *Dataset) Filter(sel Selection) View {
	if d == nil {
		return View{}
	}
	return View{posts: filterPosts(d.posts, sel)}
}

// Filter narrows the view further. Filtering twice by the same selection
// yields the same rows.
func (v View) Filter(sel Selection) View {
	return View{posts: filterPosts(v.posts, sel)}
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.posts)
}

// Posts returns a copy of the rows in the view.
func (v View) Posts() []Post {
	return append([]Post(nil), v.posts...)
}

func filterPosts(posts []Post, sel Selection) []Post {
	out := make([]Post, 0)
	for _, p := range posts {
		if sel.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
