package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/domain/entity"
)

// PostIndex mirrors posts into an Elasticsearch index.
type PostIndex struct {
	ES        *elasticsearch.Client
	IndexName string
	Timeout   time.Duration
}

func NewPostIndex(es *elasticsearch.Client, index string) *PostIndex {
	return &PostIndex{ES: es, IndexName: index, Timeout: 3 * time.Second}
}

type postDoc struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	UserID     int64     `json:"user_id"`
	DatePosted time.Time `json:"date_posted"`
}

func (x *PostIndex) Index(ctx context.Context, p *entity.Post) error {
	doc := postDoc{ID: p.ID, Title: p.Title, Content: p.Content, UserID: p.UserID, DatePosted: p.DatePosted}
	if p.Author != nil {
		doc.Author = p.Author.Username
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.IndexName,
		DocumentID: strconv.FormatInt(p.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *PostIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// a missing document is already removed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over title and content, title weighted higher.
func (x *PostIndex) Search(ctx context.Context, q string, size int) ([]application.SearchHit, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source postDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.SearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, application.SearchHit{
			ID:         h.Source.ID,
			Title:      h.Source.Title,
			Content:    h.Source.Content,
			Author:     h.Source.Author,
			DatePosted: h.Source.DatePosted,
			Score:      h.Score,
		})
	}
	return out, nil
}

var _ application.PostIndexer = (*PostIndex)(nil)
