package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Payload is one backend operation. Each variant names its endpoint and HTTP
// method and carries only the fields that endpoint reads.
type Payload interface {
	Endpoint() string
	Method() string
}

// AllLists requests every list the user can see.
type AllLists struct{}

// ListInfo requests a single list.
type ListInfo struct {
	GUID string `json:"guid"`
}

// ListItems requests the unfinished items of a list.
type ListItems struct {
	GUID string `json:"guid"`
}

// ListAllItems requests every item of a list.
type ListAllItems struct {
	GUID string `json:"guid"`
}

// Completed requests the recently completed items.
type Completed struct{}

// ItemInfo requests a single item.
type ItemInfo struct {
	GUID string `json:"guid"`
}

// Complete marks an item done.
type Complete struct {
	GUID string `json:"guid"`
}

// Uncomplete marks an item not done.
type Uncomplete struct {
	GUID string `json:"guid"`
}

// Modify replaces an item's comments.
type Modify struct {
	GUID     string `json:"guid"`
	Comments string `json:"comments"`
}

// AddItem creates an item on a list.
type AddItem struct {
	GUID     string `json:"guid"`
	Name     string `json:"name"`
	Comments string `json:"comments"`
}

// Move reassigns an item to another list.
type Move struct {
	GUID       string `json:"guid"`
	ToListGUID string `json:"to_list_guid"`
}

// Categorize assigns a category to an item.
type Categorize struct {
	GUID         string `json:"guid"`
	CategoryName string `json:"category_name"`
}

// Categories requests the categories a list offers.
type Categories struct {
	GUID string `json:"guid"`
}

func (AllLists) Endpoint() string     { return "all lists" }
func (ListInfo) Endpoint() string     { return "list" }
func (ListItems) Endpoint() string    { return "list items" }
func (ListAllItems) Endpoint() string { return "list all items" }
func (Completed) Endpoint() string    { return "completed" }
func (ItemInfo) Endpoint() string     { return "item" }
func (Complete) Endpoint() string     { return "complete" }
func (Uncomplete) Endpoint() string   { return "uncomplete" }
func (Modify) Endpoint() string       { return "modify" }
func (AddItem) Endpoint() string      { return "add item" }
func (Move) Endpoint() string         { return "move" }
func (Categorize) Endpoint() string   { return "categorize" }
func (Categories) Endpoint() string   { return "categories" }

func (AllLists) Method() string     { return http.MethodGet }
func (ListInfo) Method() string     { return http.MethodGet }
func (ListItems) Method() string    { return http.MethodGet }
func (ListAllItems) Method() string { return http.MethodGet }
func (Completed) Method() string    { return http.MethodGet }
func (ItemInfo) Method() string     { return http.MethodGet }
func (Complete) Method() string     { return http.MethodPut }
func (Uncomplete) Method() string   { return http.MethodPut }
func (Modify) Method() string       { return http.MethodPut }
func (AddItem) Method() string      { return http.MethodPost }
func (Move) Method() string         { return http.MethodPut }
func (Categorize) Method() string   { return http.MethodPut }
func (Categories) Method() string   { return http.MethodGet }

// SignedEnvelope is the request body: the canonical message and its signature.
type SignedEnvelope struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// CanonicalMessage serializes p as one JSON object: "endpoint" first, then the
// payload's fields in declaration order, then "username". The returned bytes are
// both signed and transmitted; they must not be re-encoded in between.
func CanonicalMessage(p Payload, username string) ([]byte, error) {
	message, err := sjson.SetBytes([]byte(`{}`), "endpoint", p.Endpoint())
	if err != nil {
		return nil, fmt.Errorf("set endpoint: %w", err)
	}

	fields, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.Endpoint(), err)
	}

	var setErr error
	gjson.ParseBytes(fields).ForEach(func(key, value gjson.Result) bool {
		message, setErr = sjson.SetRawBytes(message, key.String(), []byte(value.Raw))
		return setErr == nil
	})
	if setErr != nil {
		return nil, fmt.Errorf("set %s payload fields: %w", p.Endpoint(), setErr)
	}

	message, err = sjson.SetBytes(message, "username", username)
	if err != nil {
		return nil, fmt.Errorf("set username: %w", err)
	}

	return message, nil
}
