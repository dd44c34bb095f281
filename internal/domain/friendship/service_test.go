package friendship

import (
	"context"
	"testing"
	"time"

	"github.com/anihub/anihub-api/internal/domain/user"
)

type edge struct {
	userID   int64
	friendID int64
}

type fakeFriendRepo struct {
	requests  map[int64]*FriendRequest
	nextID    int64
	edges     []edge
	messages  []Message
	nextMsgID int64
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{requests: map[int64]*FriendRequest{}}
}

func (f *fakeFriendRepo) GetRequest(ctx context.Context, id int64) (*FriendRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeFriendRepo) FindPendingRequest(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
	for _, r := range f.requests {
		if r.SenderID == senderID && r.ReceiverID == receiverID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeFriendRepo) CreateRequest(ctx context.Context, req *FriendRequest) error {
	for _, r := range f.requests {
		if r.SenderID == req.SenderID && r.ReceiverID == req.ReceiverID {
			return ErrRequestAlreadySent
		}
	}
	f.nextID++
	req.ID = f.nextID
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeFriendRepo) DeleteRequest(ctx context.Context, id int64) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeFriendRepo) ListIncoming(ctx context.Context, receiverID int64) ([]IncomingRequest, error) {
	out := []IncomingRequest{}
	for _, r := range f.requests {
		if r.ReceiverID == receiverID {
			out = append(out, IncomingRequest{ID: r.ID, SenderID: r.SenderID, ReceiverID: r.ReceiverID})
		}
	}
	return out, nil
}

func (f *fakeFriendRepo) HasFriendship(ctx context.Context, userID, friendID int64) (bool, error) {
	for _, e := range f.edges {
		if e.userID == userID && e.friendID == friendID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendRepo) ListFriends(ctx context.Context, userID int64) ([]Friend, error) {
	out := []Friend{}
	for _, e := range f.edges {
		if e.userID == userID {
			out = append(out, Friend{ID: e.friendID})
		}
	}
	return out, nil
}

func (f *fakeFriendRepo) CreateMessage(ctx context.Context, msg *Message) error {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeFriendRepo) ListConversation(ctx context.Context, userID, friendID int64) ([]Message, error) {
	out := []Message{}
	for _, m := range f.messages {
		if (m.SenderID == userID && m.ReceiverID == friendID) ||
			(m.SenderID == friendID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeFriendRepo) GetLastMessage(ctx context.Context, userID, friendID int64) (*Message, error) {
	conv, _ := f.ListConversation(ctx, userID, friendID)
	if len(conv) == 0 {
		return nil, nil
	}
	last := conv[len(conv)-1]
	return &last, nil
}

func (f *fakeFriendRepo) InTx(ctx context.Context, fn func(Tx) error) error {
	return fn(&fakeFriendTx{repo: f})
}

type fakeFriendTx struct {
	repo *fakeFriendRepo
}

func (t *fakeFriendTx) CreateFriendshipIfAbsent(userID, friendID int64) error {
	for _, e := range t.repo.edges {
		if e.userID == userID && e.friendID == friendID {
			return nil
		}
	}
	t.repo.edges = append(t.repo.edges, edge{userID: userID, friendID: friendID})
	return nil
}

func (t *fakeFriendTx) DeleteRequest(requestID int64) error {
	delete(t.repo.requests, requestID)
	return nil
}

type fakeUserDirectory struct {
	users map[int64]*user.User
}

func (f *fakeUserDirectory) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return f.users[id], nil
}

func (f *fakeUserDirectory) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserDirectory) SearchByUsername(ctx context.Context, query string, limit int) ([]*user.User, error) {
	out := []*user.User{}
	for _, u := range f.users {
		if len(out) < limit && contains(u.Username, query) {
			out = append(out, u)
		}
	}
	return out, nil
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func newFriendService() (*Service, *fakeFriendRepo) {
	repo := newFakeFriendRepo()
	users := &fakeUserDirectory{users: map[int64]*user.User{
		1: {ID: 1, Username: "alice"},
		2: {ID: 2, Username: "bob"},
		3: {ID: 3, Username: "carol"},
	}}
	return NewService(repo, users), repo
}

func TestSendRequest_Validation(t *testing.T) {
	svc, _ := newFriendService()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, 1, 1); err != ErrCannotFriendSelf {
		t.Fatalf("expected ErrCannotFriendSelf, got %v", err)
	}
	if err := svc.SendRequest(ctx, 1, 404); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSendRequest_DuplicatePending(t *testing.T) {
	svc, _ := newFriendService()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := svc.SendRequest(ctx, 1, 2); err != ErrRequestAlreadySent {
		t.Fatalf("expected ErrRequestAlreadySent, got %v", err)
	}
}

func TestAcceptRequest_CreatesBothEdges(t *testing.T) {
	svc, repo := newFriendService()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	var reqID int64
	for id := range repo.requests {
		reqID = id
	}

	// only the receiver may accept
	if err := svc.AcceptRequest(ctx, reqID, 3); err != ErrNotReceiver {
		t.Fatalf("expected ErrNotReceiver, got %v", err)
	}

	if err := svc.AcceptRequest(ctx, reqID, 2); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	for _, pair := range []edge{{1, 2}, {2, 1}} {
		ok, _ := repo.HasFriendship(ctx, pair.userID, pair.friendID)
		if !ok {
			t.Fatalf("missing friendship edge %d -> %d", pair.userID, pair.friendID)
		}
	}
	if len(repo.requests) != 0 {
		t.Fatal("expected request row to be deleted on accept")
	}

	// the pair is now friends, so a new request is a conflict
	if err := svc.SendRequest(ctx, 1, 2); err != ErrAlreadyFriends {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}

	if err := svc.AcceptRequest(ctx, 404, 2); err != ErrRequestNotFound {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestRejectRequest(t *testing.T) {
	svc, repo := newFriendService()
	ctx := context.Background()

	if err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	var reqID int64
	for id := range repo.requests {
		reqID = id
	}

	if err := svc.RejectRequest(ctx, reqID, 3); err != ErrNotReceiver {
		t.Fatalf("expected ErrNotReceiver, got %v", err)
	}
	if err := svc.RejectRequest(ctx, reqID, 2); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if len(repo.requests) != 0 {
		t.Fatal("expected request row to be deleted on reject")
	}
	if len(repo.edges) != 0 {
		t.Fatal("reject must not create friendship edges")
	}
}

func TestMessaging_GatedByFriendship(t *testing.T) {
	svc, repo := newFriendService()
	ctx := context.Background()

	if err := svc.PostMessage(ctx, 1, "bob", "hi"); err != ErrNotFriends {
		t.Fatalf("expected ErrNotFriends, got %v", err)
	}
	if _, err := svc.GetConversation(ctx, 1, "bob"); err != ErrNotFriends {
		t.Fatalf("expected ErrNotFriends, got %v", err)
	}
	if err := svc.PostMessage(ctx, 1, "ghost", "hi"); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	repo.edges = append(repo.edges, edge{1, 2}, edge{2, 1})

	for _, text := range []string{"hi", "how are you"} {
		if err := svc.PostMessage(ctx, 1, "bob", text); err != nil {
			t.Fatalf("post failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	if err := svc.PostMessage(ctx, 2, "alice", "good"); err != nil {
		t.Fatalf("reply failed: %v", err)
	}

	conv, err := svc.GetConversation(ctx, 1, "bob")
	if err != nil {
		t.Fatalf("get conversation failed: %v", err)
	}
	if len(conv) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv))
	}
	want := []string{"hi", "how are you", "good"}
	for i, m := range conv {
		if m.Text != want[i] {
			t.Fatalf("message %d out of order: got %q, want %q", i, m.Text, want[i])
		}
	}
}

func TestListConversations(t *testing.T) {
	svc, repo := newFriendService()
	ctx := context.Background()

	repo.edges = append(repo.edges, edge{1, 2}, edge{2, 1}, edge{1, 3}, edge{3, 1})
	if err := svc.PostMessage(ctx, 1, "bob", "last one"); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	summaries, err := svc.ListConversations(ctx, 1)
	if err != nil {
		t.Fatalf("list conversations failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	byFriend := map[int64]ConversationSummary{}
	for _, s := range summaries {
		byFriend[s.FriendID] = s
	}
	if byFriend[2].LastMessage != "last one" || byFriend[2].LastTime == nil {
		t.Fatalf("unexpected summary for friend 2: %+v", byFriend[2])
	}
	// no history with carol yet
	if byFriend[3].LastMessage != "" || byFriend[3].LastTime != nil {
		t.Fatalf("expected empty last message for friend 3: %+v", byFriend[3])
	}
}

func TestSearchUsers(t *testing.T) {
	svc, _ := newFriendService()
	ctx := context.Background()

	results, err := svc.SearchUsers(ctx, "  ")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("blank query must match nobody, got %d", len(results))
	}

	results, err = svc.SearchUsers(ctx, "ali")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Username != "alice" {
		t.Fatalf("unexpected results: %+v", results)
	}
}
