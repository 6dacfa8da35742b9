package report

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stage is one step of an aggregation pipeline. Each concrete type renders
// exactly one `$operator` document.
type Stage interface {
	Operator() string
	Spec() any
}

type Pipeline []Stage

// BSON renders the pipeline in the form mongo.Collection.Aggregate accepts.
func (p Pipeline) BSON() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(p))
	for _, s := range p {
		out = append(out, bson.D{{Key: s.Operator(), Value: s.Spec()}})
	}
	return out
}

// Then returns a copy of p with more stages appended.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
}

func (Lookup) Operator() string { return "$lookup" }
func (l Lookup) Spec() any {
	return bson.D{
		{Key: "from", Value: l.From},
		{Key: "localField", Value: l.LocalField},
		{Key: "foreignField", Value: l.ForeignField},
		{Key: "as", Value: l.As},
	}
}

type Match struct {
	Filter bson.D
}

func (Match) Operator() string { return "$match" }
func (m Match) Spec() any      { return m.Filter }

// Unwind drops documents whose array is empty or missing, which is what makes
// a Lookup followed by Unwind behave as an inner join.
type Unwind struct {
	Path string
}

func (Unwind) Operator() string { return "$unwind" }
func (u Unwind) Spec() any      { return "$" + u.Path }

type Group struct {
	ID     any
	Fields bson.D
}

func (Group) Operator() string { return "$group" }
func (g Group) Spec() any {
	return append(bson.D{{Key: "_id", Value: g.ID}}, g.Fields...)
}

type SortKey struct {
	Field string
	Desc  bool
}

func Asc(field string) SortKey  { return SortKey{Field: field} }
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

type Sort struct {
	Keys []SortKey
}

func (Sort) Operator() string { return "$sort" }
func (s Sort) Spec() any {
	d := make(bson.D, 0, len(s.Keys))
	for _, k := range s.Keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}

type Limit struct {
	N int64
}

func (Limit) Operator() string { return "$limit" }
func (l Limit) Spec() any      { return l.N }

type Project struct {
	Fields bson.D
}

func (Project) Operator() string { return "$project" }
func (p Project) Spec() any      { return p.Fields }

type ReplaceRoot struct {
	Path string
}

func (ReplaceRoot) Operator() string { return "$replaceRoot" }
func (r ReplaceRoot) Spec() any {
	return bson.D{{Key: "newRoot", Value: "$" + r.Path}}
}
