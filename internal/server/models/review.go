package models

import "time"

type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"title"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
