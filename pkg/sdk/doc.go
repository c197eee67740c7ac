// Package wisdom embeds the wisdom search engine in a Go program.
//
// The client reads the same dataset the HTTP API serves, from a directory
// or from Redis, and answers table and row searches in process.
//
//	client, _ := wisdom.New(ctx, wisdom.WithDirectory("data"))
//	defer client.Close()
//
//	res, _ := client.SearchTables(ctx, wisdom.TableSearch{
//	    Databases: []string{"census"},
//	    Query: wisdom.Where(
//	        wisdom.Term("jalisco"),
//	        wisdom.Or(),
//	        wisdom.TermOf("yucatan", "region"),
//	    ),
//	})
//
//	page, _ := client.SearchRows(ctx, wisdom.RowSearch{
//	    Database: "census",
//	    Table:    res.Tables[0].ID,
//	})
package wisdom
