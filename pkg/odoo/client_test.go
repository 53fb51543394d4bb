package odoo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldops/fieldops-pos/pkg/config"
)

type recordedCall struct {
	Service string
	Method  string
	Model   string
	Action  string
	Args    []any
	Kwargs  map[string]any
}

type fakeERP struct {
	t       *testing.T
	mu      sync.Mutex
	calls   []recordedCall
	logins  int
	uid     any
	handler func(call recordedCall) (any, *RPCError)

	loginGate chan struct{}
}

func newFakeERP(t *testing.T) (*fakeERP, *httptest.Server) {
	t.Helper()
	f := &fakeERP{t: t, uid: 7}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeERP) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != rpcPath || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var req struct {
		ID     int64 `json:"id"`
		Params struct {
			Service string `json:"service"`
			Method  string `json:"method"`
			Args    []any  `json:"args"`
		} `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode request: %v", err)
		return
	}

	call := recordedCall{Service: req.Params.Service, Method: req.Params.Method, Args: req.Params.Args}
	var result any
	var rpcErr *RPCError

	switch {
	case call.Service == serviceCommon && call.Method == "login":
		f.mu.Lock()
		gate := f.loginGate
		f.mu.Unlock()
		if gate != nil {
			<-gate
		}
		f.mu.Lock()
		f.logins++
		result = f.uid
		f.mu.Unlock()
	case call.Service == serviceCommon && call.Method == "version":
		result = map[string]any{"server_version": "17.0"}
	case call.Service == serviceObject && call.Method == "execute_kw":
		call.Model, _ = call.Args[3].(string)
		call.Action, _ = call.Args[4].(string)
		call.Args = call.Args[5].([]any)
		call.Kwargs, _ = req.Params.Args[6].(map[string]any)
		if f.handler != nil {
			result, rpcErr = f.handler(call)
		} else {
			result = true
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeERP) setUID(uid any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uid = uid
}

func (f *fakeERP) setLoginGate(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loginGate = gate
}

func (f *fakeERP) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeERP) objectCalls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []recordedCall{}
	for _, c := range f.calls {
		if c.Service == serviceObject {
			out = append(out, c)
		}
	}
	return out
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	client, err := New(config.ERPConfig{
		URL:      srv.URL + "/",
		Database: "erp",
		Login:    "pos@example.com",
		Password: "secret",
		Timeout:  5 * time.Second,
	}, opts...)
	require.NoError(t, err)
	return client
}

type observedCall struct {
	model, method string
	err           error
}

type recordingObserver struct {
	calls []observedCall
}

func (r *recordingObserver) ObserveCall(model, method string, err error, _ time.Duration) {
	r.calls = append(r.calls, observedCall{model: model, method: method, err: err})
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(config.ERPConfig{Database: "erp"})
	assert.Error(t, err)
	_, err = New(config.ERPConfig{URL: "https://erp.example.com"})
	assert.Error(t, err)
}

func TestCreateOrderSendsLineCommands(t *testing.T) {
	fake, srv := newFakeERP(t)
	fake.handler = func(call recordedCall) (any, *RPCError) {
		return 100, nil
	}
	observer := &recordingObserver{}
	client := newTestClient(t, srv, WithObserver(observer))

	id, err := client.CreateOrder(context.Background(), OrderRequest{
		PartnerID: 42,
		Lines: []OrderLine{{
			ProductID: 9,
			Name:      "Water 1L",
			Quantity:  1,
			PriceUnit: decimal.RequireFromString("12.5"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), id)

	calls := fake.objectCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, modelSaleOrder, calls[0].Model)
	assert.Equal(t, "create", calls[0].Action)

	values := calls[0].Args[0].(map[string]any)
	assert.EqualValues(t, 42, values["partner_id"])
	lines := values["order_line"].([]any)
	require.Len(t, lines, 1)
	cmd := lines[0].([]any)
	assert.EqualValues(t, commandCreate, cmd[0])
	line := cmd[2].(map[string]any)
	assert.EqualValues(t, 9, line["product_id"])
	assert.EqualValues(t, 12.5, line["price_unit"])
	assert.EqualValues(t, 1, line["quantity"])

	require.Len(t, observer.calls, 1)
	assert.Equal(t, "create", observer.calls[0].method)
	assert.NoError(t, observer.calls[0].err)
}

func TestLoginIsCachedAcrossCalls(t *testing.T) {
	fake, srv := newFakeERP(t)
	client := newTestClient(t, srv)

	require.NoError(t, client.ConfirmOrder(context.Background(), 100))
	require.NoError(t, client.LinkInvoiceToOrder(context.Background(), 100, 200))

	assert.Equal(t, 1, fake.loginCount())

	calls := fake.objectCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "action_confirm", calls[0].Action)
	assert.Equal(t, "write", calls[1].Action)
	values := calls[1].Args[1].(map[string]any)
	link := values["invoice_ids"].([]any)[0].([]any)
	assert.EqualValues(t, commandLink, link[0])
	assert.EqualValues(t, 200, link[1])
}

func TestSlowLoginIsSharedAndDoesNotHoldCallers(t *testing.T) {
	fake, srv := newFakeERP(t)
	gate := make(chan struct{})
	fake.setLoginGate(gate)
	client := newTestClient(t, srv)

	waitCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	started := time.Now()
	err := client.ConfirmOrder(waitCtx, 100)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 2*time.Second, "caller must not wait for the pending login")

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.ConfirmOrder(context.Background(), 100)
		}(i)
	}
	close(gate)
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fake.loginCount())
	assert.Len(t, fake.objectCalls(), 5)
}

func TestRejectedLoginReturnsAuthenticationError(t *testing.T) {
	fake, srv := newFakeERP(t)
	fake.setUID(false)
	client := newTestClient(t, srv)

	err := client.ConfirmOrder(context.Background(), 100)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Empty(t, fake.objectCalls())

	fake.setUID(7)
	require.NoError(t, client.ConfirmOrder(context.Background(), 100))
	assert.Equal(t, 2, fake.loginCount())
}

func TestCreateInvoiceFormatsDateAndMoveType(t *testing.T) {
	fake, srv := newFakeERP(t)
	fake.handler = func(call recordedCall) (any, *RPCError) { return 200, nil }
	client := newTestClient(t, srv)

	id, err := client.CreateInvoice(context.Background(), InvoiceRequest{
		PartnerID:   42,
		Lines:       []OrderLine{{ProductID: 9, Name: "Water", Quantity: 1, PriceUnit: decimal.NewFromInt(10)}},
		InvoiceDate: time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(200), id)

	values := fake.objectCalls()[0].Args[0].(map[string]any)
	assert.Equal(t, "out_invoice", values["move_type"])
	assert.Equal(t, "2026-03-01", values["invoice_date"])
	assert.Len(t, values["invoice_line_ids"], 1)

	_, err = client.CreateInvoice(context.Background(), InvoiceRequest{PartnerID: 1})
	require.NoError(t, err)
	values = fake.objectCalls()[1].Args[0].(map[string]any)
	_, hasDate := values["invoice_date"]
	assert.False(t, hasDate)
}

func TestRPCErrorIsSurfaced(t *testing.T) {
	fake, srv := newFakeERP(t)
	fake.handler = func(call recordedCall) (any, *RPCError) {
		return nil, &RPCError{Code: 200, Message: "Odoo Server Error", Data: RPCErrorData{Name: "odoo.exceptions.UserError", Message: "Partner is archived"}}
	}
	observer := &recordingObserver{}
	client := newTestClient(t, srv, WithObserver(observer))

	_, err := client.CreateOrder(context.Background(), OrderRequest{PartnerID: 1})
	require.Error(t, err)
	assert.True(t, IsRPCError(err))
	assert.Contains(t, err.Error(), "Partner is archived")
	require.Len(t, observer.calls, 1)
	assert.Error(t, observer.calls[0].err)
}

func TestHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	client := newTestClient(t, srv)

	err := client.Ping(context.Background())
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func TestSearchReadAndRead(t *testing.T) {
	fake, srv := newFakeERP(t)
	fake.handler = func(call recordedCall) (any, *RPCError) {
		switch call.Action {
		case "search_read":
			return []map[string]any{
				{"id": 5, "name": "Acme", "email": false, "parent_id": []any{1, "Acme Group"}},
			}, nil
		case "read":
			return []map[string]any{{"id": 9, "name": "Water", "parent_id": false}}, nil
		}
		return nil, nil
	}
	client := newTestClient(t, srv)

	type record struct {
		ID       int64    `json:"id"`
		Name     String   `json:"name"`
		Email    String   `json:"email"`
		ParentID Many2One `json:"parent_id"`
	}

	var partners []record
	err := client.SearchRead(context.Background(), "res.partner", []any{[]any{"name", "ilike", "ac"}}, SearchReadOptions{
		Fields: []string{"id", "name"},
		Limit:  20,
	}, &partners)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, String("Acme"), partners[0].Name)
	assert.Equal(t, String(""), partners[0].Email)
	assert.Equal(t, Many2One{ID: 1, Name: "Acme Group"}, partners[0].ParentID)

	call := fake.objectCalls()[0]
	assert.EqualValues(t, 20, call.Kwargs["limit"])

	var products []record
	require.NoError(t, client.Read(context.Background(), "product.product", []int64{9}, nil, &products))
	require.Len(t, products, 1)
	assert.Equal(t, Many2One{}, products[0].ParentID)

	assert.Error(t, client.Read(context.Background(), "product.product", nil, nil, &products))
}

func TestPingDoesNotLogin(t *testing.T) {
	fake, srv := newFakeERP(t)
	client := newTestClient(t, srv)
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, 0, fake.loginCount())
}
