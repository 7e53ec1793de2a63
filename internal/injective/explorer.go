package injective

import (
	"context"
	"net/url"
	"strconv"
)

// DefaultExplorerBatch is the number of transactions requested per explorer call.
const DefaultExplorerBatch = 100

// ExplorerClient implements TxSource over the public explorer API.
type ExplorerClient struct {
	t *transport
}

// NewExplorerClient creates an explorer client using ExplorerPolicy.
func NewExplorerClient(baseURL string, opts ...ClientOption) *ExplorerClient {
	if baseURL == "" {
		baseURL = DefaultExplorerURL
	}
	return &ExplorerClient{t: newTransport(baseURL, ExplorerPolicy, opts)}
}

type accountTxsResult struct {
	Data []ExplorerTx `json:"data"`
}

// AccountTxs returns one batch of transactions touching address.
func (c *ExplorerClient) AccountTxs(ctx context.Context, address string, q TxQuery) ([]ExplorerTx, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultExplorerBatch
	}
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	v.Set("limit", strconv.Itoa(limit))
	if q.StartBlock > 0 {
		v.Set("startBlock", strconv.FormatInt(q.StartBlock, 10))
	}
	if q.EndBlock > 0 {
		v.Set("endBlock", strconv.FormatInt(q.EndBlock, 10))
	}

	var result accountTxsResult
	path := "/api/explorer/v1/accountTxs/" + url.PathEscape(address)
	if err := c.t.get(ctx, "explorer_account_txs", path, v, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}
