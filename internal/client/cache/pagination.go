package cache

// Page is one cached window of a paginated field.
type Page struct {
	Args    map[string]any
	Items   []Link
	HasMore bool
}

// Merged is the logical list rebuilt from every cached page.
type Merged struct {
	Items   []Link
	HasMore bool
}

// MergePages concatenates pages in the order given, which is fetch order,
// keeping the first occurrence of an item. HasMore is the last page's: an
// earlier page saying there is nothing more has been superseded.
func MergePages(pages []Page) Merged {
	var merged Merged
	seen := make(map[Link]struct{})
	for _, p := range pages {
		for _, item := range p.Items {
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			merged.Items = append(merged.Items, item)
		}
		merged.HasMore = p.HasMore
	}
	return merged
}

// CursorPagination merges every cached page of a field into one result.
// listField names the item list inside each page object. The result is
// partial when the page for the requested arguments has not been fetched.
func CursorPagination(listField string) Resolver {
	return func(s *Store, args map[string]any, info *ResolveInfo) any {
		var pages []Page
		var last map[string]any

		for _, fi := range s.InspectFields(info.ParentKey) {
			if fi.FieldName != info.FieldName {
				continue
			}
			v, _ := s.Resolve(info.ParentKey, fi.FieldKey)
			pageKey, ok := v.(Link)
			if !ok {
				continue
			}
			rec, ok := s.records[string(pageKey)]
			if !ok {
				continue
			}
			page := Page{Args: fi.Arguments}
			page.HasMore, _ = rec.fields["hasMore"].(bool)
			if items, ok := rec.fields[listField].([]any); ok {
				for _, it := range items {
					if l, ok := it.(Link); ok {
						page.Items = append(page.Items, l)
					}
				}
			}
			pages = append(pages, page)
			last = rec.fields
		}
		if len(pages) == 0 {
			return nil
		}

		requested, _ := s.Resolve(info.ParentKey, FieldKey(info.FieldName, args))
		if reqKey, ok := requested.(Link); !ok {
			info.Partial = true
		} else if _, ok := s.Resolve(string(reqKey), listField); !ok {
			info.Partial = true
		}

		merged := MergePages(pages)
		out := make(map[string]any, len(last))
		// scalars like endCursor follow the most recent page too
		for k, v := range last {
			if _, isList := v.([]any); isList {
				continue
			}
			if _, isLink := v.(Link); isLink {
				continue
			}
			out[k] = v
		}
		items := make([]any, len(merged.Items))
		for i, l := range merged.Items {
			items[i] = l
		}
		out[listField] = items
		out["hasMore"] = merged.HasMore
		return out
	}
}
