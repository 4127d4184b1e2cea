package models

import "time"

// BioLayout renders a member-since line from a user's creation time.
const BioLayout = "January 2, 2006"

// UserView is a user as seen by a particular viewer.
type UserView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Avatar      *string `json:"avatar,omitempty"`
	Bio         string  `json:"bio"`
	Followers   int64   `json:"followers"`
	Following   *int64  `json:"following,omitempty"`
	Posts       *int64  `json:"posts,omitempty"`
	IsFollowing bool    `json:"isFollowing"`
}

// MessageView is a message as seen by a particular viewer.
type MessageView struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	AuthorID      string    `json:"authorId"`
	AuthorName    string    `json:"authorName"`
	AuthorAvatar  *string   `json:"authorAvatar,omitempty"`
	Image         *string   `json:"image,omitempty"`
	Images        []string  `json:"images,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Likes         int64     `json:"likes"`
	IsLiked       bool      `json:"isLiked"`
	Replies       int64     `json:"replies"`
	Shares        int64     `json:"shares"`
	IsShared      bool      `json:"isShared"`
	ReplyToID     *string   `json:"replyToId,omitempty"`
	ReplyToAuthor *string   `json:"replyToAuthor,omitempty"`
}

// MemberSince formats the directory bio line for t, always in UTC.
func MemberSince(t time.Time) string {
	return "Member since " + t.UTC().Format(BioLayout)
}

// NewUserView projects a user row whose aggregate fields were loaded for the viewer.
// withProfile adds the following and message counts.
func NewUserView(u *User, withProfile bool) UserView {
	v := UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Avatar:      u.Avatar,
		Bio:         MemberSince(u.CreatedAt),
		Followers:   u.FollowersCount,
		IsFollowing: u.IsFollowing,
	}
	if withProfile {
		following := u.FollowingCount
		posts := u.MessagesCount
		v.Following = &following
		v.Posts = &posts
	}
	return v
}

// NewMessageView projects a message row whose aggregate fields were loaded for the viewer.
// Sharing is not modelled, so shares and isShared are constant.
func NewMessageView(m *Message) MessageView {
	return MessageView{
		ID:            m.ID,
		Content:       m.Content,
		AuthorID:      m.AuthorID,
		AuthorName:    m.AuthorName,
		AuthorAvatar:  m.AuthorAvatar,
		Image:         m.Image,
		Images:        m.Images,
		Timestamp:     m.CreatedAt,
		Likes:         m.LikesCount,
		IsLiked:       m.Liked,
		Replies:       m.RepliesCount,
		Shares:        0,
		IsShared:      false,
		ReplyToID:     m.ReplyToID,
		ReplyToAuthor: m.ReplyToAuthor,
	}
}
