package model

type Space struct {
	Id   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
