package wisdom

import "time"

// Catalog lists every table in metadata order and every database in
// configuration order.
func (c *Client) Catalog() Catalog {
	start := time.Now()
	defer c.obs.observe("catalog", start, nil)
	return catalogFromDomain(c.catSvc.Catalog())
}

// BDTs returns the distinct column type tags, sorted.
func (c *Client) BDTs() []string {
	start := time.Now()
	defer c.obs.observe("bdts", start, nil)
	return c.catSvc.BDTs()
}
