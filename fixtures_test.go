package docmap_test

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reoring/docmap"
	"github.com/reoring/docmap/value"
)

type Status int

const (
	StatusPending Status = iota
	StatusShipped
	StatusCancelled
)

func (Status) EnumMembers() []docmap.EnumMember {
	return []docmap.EnumMember{
		{Name: "Pending", Value: StatusPending},
		{Name: "Shipped", Alias: "shipped", Value: StatusShipped},
		{Name: "Cancelled", Value: StatusCancelled},
	}
}

type Address struct {
	Street string         `docmap:"street"`
	Geo    value.GeoPoint `docmap:"geo"`
}

type Order struct {
	ID       string          `docmap:"id,documentID"`
	Customer string          `docmap:"customer"`
	Total    decimal.Decimal `docmap:"total"`
	Qty      int32           `docmap:"qty"`
	Price    float64         `docmap:"price"`
	Tags     []string        `docmap:"tags"`
	Meta     map[string]any  `docmap:"meta"`
	Status   Status          `docmap:"status"`
	Created  time.Time       `docmap:"created"`
	Updated  *time.Time      `docmap:"updated,serverTimestamp"`
	Ship     *Address        `docmap:"ship"`
	Owner    value.Reference `docmap:"owner"`
	Blob     []byte          `docmap:"blob"`
	internal string
}

func sampleOrder() Order {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	return Order{
		Customer: "ada",
		Total:    decimal.RequireFromString("12.5"),
		Qty:      3,
		Price:    4.25,
		Tags:     []string{"gift", "express"},
		Meta:     map[string]any{"channel": "web", "attempt": int64(2)},
		Status:   StatusShipped,
		Created:  created,
		Updated:  &updated,
		Ship:     &Address{Street: "1 Main St", Geo: value.GeoPoint{Latitude: 35.6, Longitude: 139.7}},
		Owner:    value.MustReference("users/ada"),
		Blob:     []byte{0x01, 0x02},
	}
}

type Node struct {
	Name string `docmap:"name"`
	Next *Node  `docmap:"next"`
}

type Nest []Nest

// SelfPtr is a pointer type whose element is itself.
type SelfPtr *SelfPtr

type AnyBox struct {
	Any any `docmap:"any"`
}

func nestValue(depth int) value.Value {
	v := value.Array()
	for i := 0; i < depth; i++ {
		v = value.Array(v)
	}
	return v
}

func nest(depth int) Nest {
	n := Nest{}
	for i := 0; i < depth; i++ {
		n = Nest{n}
	}
	return n
}

type Plain struct {
	Name  string `docmap:"name"`
	Count int64  `docmap:"count"`
}

type StrictPlain struct {
	docmap.Strict
	Name string `docmap:"name"`
}

type LenientPlain struct {
	docmap.Lenient
	Name string `docmap:"name"`
}

type Shouty struct {
	docmap.Strict
	VALUE string
}

type CaseClash struct {
	Value string
	Other string `docmap:"value"`
}

type RefDoc struct {
	Self  value.Reference `docmap:"self,documentID"`
	Title string          `docmap:"title"`
}

type IDOnly struct {
	ID string `docmap:"id,documentID"`
}

type Stamped struct {
	At   time.Time `docmap:"at,serverTimestamp"`
	Note string    `docmap:"note"`
}

type Envelope struct {
	Kind    string `docmap:"kind"`
	Payload any    `docmap:"payload,typevar=T"`
}

type Pair struct {
	Left  any `docmap:"left,typevar=L"`
	Right any `docmap:"right,typevar=R"`
}

type Account struct {
	Name    string `docmap:"name"`
	balance int64
}

func (a *Account) GetBalance() int64  { return a.balance }
func (a *Account) SetBalance(v int64) { a.balance = v }

type Point struct {
	x, y int64
}

func NewPoint(x, y int64) Point { return Point{x: x, y: y} }

type Temperature struct {
	celsius float64
}

var errTooCold = errors.New("below absolute zero")

func NewTemperature(c float64) (Temperature, error) {
	if c < -273.15 {
		return Temperature{}, errTooCold
	}
	return Temperature{celsius: c}, nil
}

type Base struct {
	CreatedBy string `docmap:"createdBy"`
}

type Post struct {
	Base
	Title string `docmap:"title"`
}
