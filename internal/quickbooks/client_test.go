package quickbooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/IPBooks-Bridge/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		Endpoint:        srv.URL,
		ApplicationName: "ipbooks-test",
		QBXMLVersion:    "8.0",
	})
}

func TestClientQuery(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		io.WriteString(w, `<QBXML><QBXMLMsgsRs>`+
			`<VendorQueryRs statusSeverity="Info">`+
			`<VendorRet><ListID>80-1</ListID><Name>ACME</Name></VendorRet>`+
			`</VendorQueryRs></QBXMLMsgsRs></QBXML>`)
	})

	records, err := client.Query(context.Background(), "Vendor", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ACME", records[0].Text("Name"))
	assert.Contains(t, gotBody, `<VendorQueryRq requestID="1">`)
}

func TestClientQueryWithFilter(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		io.WriteString(w, `<QBXML><QBXMLMsgsRs>`+
			`<BillQueryRs statusSeverity="Info"/>`+
			`</QBXMLMsgsRs></QBXML>`)
	})

	filter := NewRecord().Set("IncludeLineItems", "1")
	records, err := client.Query(context.Background(), "Bill", filter)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Contains(t, gotBody, `<IncludeLineItems>1</IncludeLineItems>`)
}

func TestClientCreate(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		io.WriteString(w, `<QBXML><QBXMLMsgsRs>`+
			`<VendorAddRs statusSeverity="Info">`+
			`<VendorRet><ListID>80-9</ListID><Name>Birch LLP</Name></VendorRet>`+
			`</VendorAddRs></QBXMLMsgsRs></QBXML>`)
	})

	created, err := client.Create(context.Background(), "Vendor",
		NewRecord().Set("Name", "Birch LLP"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "80-9", created.Text("ListID"))
	assert.Contains(t, gotBody, `<VendorAdd><Name>Birch LLP</Name></VendorAdd>`)
}

func TestClientModify(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		io.WriteString(w, `<QBXML><QBXMLMsgsRs>`+
			`<CustomerModRs statusSeverity="Info">`+
			`<CustomerRet><ListID>90-1</ListID></CustomerRet>`+
			`</CustomerModRs></QBXMLMsgsRs></QBXML>`)
	})

	payload := NewRecord().
		Set("ListID", "90-1").
		Set("EditSequence", "117").
		Set("Name", "T-100; Widget")
	updated, err := client.Modify(context.Background(), "Customer", payload)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Contains(t, gotBody, `<CustomerModRq requestID="1"><CustomerMod>`)
	assert.Contains(t, gotBody, `<ListID>90-1</ListID><EditSequence>117</EditSequence>`)
}

func TestClientStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<QBXML><QBXMLMsgsRs>`+
			`<BillAddRs statusCode="3140" statusSeverity="Error" statusMessage="invalid reference"/>`+
			`</QBXMLMsgsRs></QBXML>`)
	})

	_, err := client.Create(context.Background(), "Bill", NewRecord())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBooksStatus))
}

func TestClientHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Query(context.Background(), "Vendor", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBooksResponse))
}

func TestClientConnectionError(t *testing.T) {
	client := NewClient(ClientConfig{Endpoint: "http://127.0.0.1:1"})

	_, err := client.Query(context.Background(), "Vendor", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeBooksConnection))
}
