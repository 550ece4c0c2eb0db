package estatesales

import (
	"context"
	"sync"
)

// FetchAll retrieves the first listing page and every further result page it
// advertises, capped at the client's max page count so malformed pagination
// cannot loop forever. Pages named by a pagination block are fetched
// concurrently (bounded) and reassembled in page order; otherwise the pager
// walks rel=next links sequentially. The first page is authoritative: its
// failure fails the whole fetch, while a follow page that fails after retries
// is dropped.
func (c *Client) FetchAll(ctx context.Context, baseURL string) ([]*Page, error) {
	first, err := c.FetchPage(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	pages := []*Page{first}

	maxPages := c.maxPages
	if maxPages < 1 {
		maxPages = 1
	}
	if maxPages == 1 {
		return pages, nil
	}

	if links := pageLinks(first); len(links) > 0 {
		if len(links) > maxPages-1 {
			links = links[:maxPages-1]
		}
		for _, page := range c.fetchOrdered(ctx, links) {
			if page != nil {
				pages = append(pages, page)
			}
		}
		return pages, nil
	}

	next := nextPageURL(first)
	for next != "" && len(pages) < maxPages {
		page, err := c.FetchPage(ctx, next)
		if err != nil {
			break
		}
		pages = append(pages, page)
		next = nextPageURL(page)
	}
	return pages, nil
}

func (c *Client) fetchOrdered(ctx context.Context, links []string) []*Page {
	concurrency := c.pageConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	out := make([]*Page, len(links))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, link := range links {
		wg.Add(1)
		go func(i int, link string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			page, err := c.FetchPage(ctx, link)
			if err != nil {
				return
			}
			out[i] = page
		}(i, link)
	}
	wg.Wait()
	return out
}
