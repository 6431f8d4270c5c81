package boxhero

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "https://rest.boxhero-app.com"

// Client talks to the BoxHero REST API with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient() *Client {
	_ = godotenv.Load()

	baseURL := os.Getenv("BOXHERO_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		token:      os.Getenv("BOXHERO_API_TOKEN"),
		httpClient: http.DefaultClient,
	}
}

// GetAllItems walks the cursor-paginated items listing until the last
// page and returns the full catalog.
func (c *Client) GetAllItems() ([]Item, error) {
	var items []Item
	cursor := ""

	for {
		page, err := c.getItemsPage(cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if page.NextCursor == "" {
			return items, nil
		}
		cursor = page.NextCursor
	}
}

func (c *Client) getItemsPage(cursor string) (*ItemsResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/items", c.baseURL)
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("boxhero returned %s", resp.Status)
	}

	var response ItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, err
	}

	return &response, nil
}
