package utils

import "strconv"

// ParseID parses a post id from a route parameter. The API's Int is 32 bit,
// anything outside 1..MaxInt32 can't name a post.
func ParseID(s string) (int, bool) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int(id), true
}
