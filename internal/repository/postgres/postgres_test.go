package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usethis-backend/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var itemCols = []string{"id", "owner_id", "title", "description", "category", "location", "price_per_day",
	"available_from", "available_to", "image_urls", "is_available", "created_on", "updated_on"}

func TestUserRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		u := &domain.User{Email: "sam@campus.edu", PasswordHash: "hash", Name: "Sam"}
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.Email, u.PasswordHash, u.Name, u.AvatarURL, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

		require.NoError(t, repo.Create(ctx, u))
		assert.Equal(t, int32(9), u.ID)
		assert.NotEmpty(t, u.CreatedOn)
	})

	t.Run("GetByEmail not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM users WHERE LOWER\\(email\\) = LOWER\\(\\$1\\)").
			WithArgs("nobody@campus.edu").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByEmail(ctx, "nobody@campus.edu")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("GetByID", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM users WHERE id = \\$1").
			WithArgs(int32(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "avatar_url", "created_on", "updated_on"}).
				AddRow(9, "sam@campus.edu", "hash", "Sam", "", testTime, testTime))

		u, err := repo.GetByID(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, "Sam", u.Name)
		assert.Equal(t, "2024-03-01T12:00:00Z", u.CreatedOn)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		from := "2024-05-01"
		it := &domain.Item{OwnerID: 1, Title: "Tent", Category: "Outdoors", Location: "Dorm B", PricePerDay: 12.5, AvailableFrom: &from, IsAvailable: true}
		mock.ExpectQuery("INSERT INTO items").
			WithArgs(int32(1), "Tent", "", "Outdoors", "Dorm B", 12.5, "2024-05-01", nil, sqlmock.AnyArg(), true, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		require.NoError(t, repo.Create(ctx, it))
		assert.Equal(t, int32(4), it.ID)
		assert.Equal(t, []string{}, it.ImageURLs)
	})

	t.Run("GetByID expands owner", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM items i JOIN users u ON u.id = i.owner_id WHERE i.id = \\$1").
			WithArgs(int32(4)).
			WillReturnRows(sqlmock.NewRows(append(itemCols, "name", "avatar_url")).
				AddRow(4, 1, "Tent", "", "Outdoors", "Dorm B", 12.5, testTime, nil, "{https://cdn/x.png}", true, testTime, testTime, "Ana", ""))

		it, err := repo.GetByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "Ana", it.Owner.Name)
		assert.Equal(t, int32(1), it.Owner.ID)
		require.NotNil(t, it.AvailableFrom)
		assert.Equal(t, "2024-03-01", *it.AvailableFrom)
		assert.Nil(t, it.AvailableTo)
		assert.Equal(t, []string{"https://cdn/x.png"}, it.ImageURLs)
	})

	t.Run("Search builds substring filters", func(t *testing.T) {
		filter := domain.ItemFilter{Query: "drill", Category: "Tools", MaxPrice: 10, AvailableOnly: true, Page: 2, PageSize: 5}
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM \\(SELECT .* ILIKE \\$1 .* i.category = \\$2 AND i.price_per_day <= \\$3 AND i.is_available\\) as sub").
			WithArgs("%drill%", "Tools", 10.0).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
		mock.ExpectQuery("ORDER BY i.created_on DESC LIMIT \\$4 OFFSET \\$5").
			WithArgs("%drill%", "Tools", 10.0, int32(5), int32(5)).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(7, 2, "Cordless drill", "18V", "Tools", "Lab", 8.0, nil, nil, "{}", true, testTime, testTime))

		items, total, err := repo.Search(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int32(6), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Cordless drill", items[0].Title)
	})

	t.Run("SetAvailability missing item", func(t *testing.T) {
		mock.ExpectExec("UPDATE items SET is_available").
			WithArgs(false, sqlmock.AnyArg(), int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetAvailability(ctx, 99, false), domain.ErrNotFound)
	})

	t.Run("AppendImage", func(t *testing.T) {
		mock.ExpectExec("UPDATE items SET image_urls = array_append").
			WithArgs("https://cdn/y.png", sqlmock.AnyArg(), int32(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.AppendImage(ctx, 4, "https://cdn/y.png"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

var bookingCols = []string{"id", "item_id", "renter_id", "owner_id", "start_date", "end_date", "total_price", "status", "created_on", "updated_on",
	"title", "price_per_day", "image_urls", "renter_name", "renter_email", "owner_name", "owner_email"}

func TestBookingRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		b := &domain.Booking{ItemID: 4, RenterID: 2, OwnerID: 1, StartDate: "2024-01-01", EndDate: "2024-01-04", TotalPrice: 66, Status: domain.BookingStatusPending}
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(int32(4), int32(2), int32(1), "2024-01-01", "2024-01-04", 66.0, "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		require.NoError(t, repo.Create(ctx, b))
		assert.Equal(t, int32(11), b.ID)
	})

	t.Run("GetByID expands participants", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT .* FROM bookings b JOIN items i .* WHERE b.id = \\$1").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(11, 4, 2, 1, start, end, 66.0, "confirmed", testTime, testTime, "Tent", 20.0, "{}", "Rae", "rae@x", "Ana", "ana@x"))

		b, err := repo.GetByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
		assert.Equal(t, "2024-01-04", b.EndDate)
		assert.Equal(t, "Tent", b.Item.Title)
		assert.Equal(t, "Rae", b.Renter.Name)
		assert.Equal(t, int32(1), b.Owner.ID)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("active", sqlmock.AnyArg(), int32(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.UpdateStatus(ctx, 11, domain.BookingStatusActive))

		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs("active", sqlmock.AnyArg(), int32(12)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.UpdateStatus(ctx, 12, domain.BookingStatusActive), domain.ErrNotFound)
	})

	t.Run("ListByOwner with status", func(t *testing.T) {
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM bookings b WHERE b.owner_id = \\$1 AND b.status = \\$2").
			WithArgs(int32(1), "pending").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("WHERE b.owner_id = \\$1 AND b.status = \\$2 ORDER BY b.created_on DESC LIMIT \\$3 OFFSET \\$4").
			WithArgs(int32(1), "pending", int32(20), int32(0)).
			WillReturnRows(sqlmock.NewRows(bookingCols))

		list, total, err := repo.ListByOwner(ctx, 1, "pending", 0, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, list)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

var convCols = []string{"id", "participant_a", "participant_b", "item_id", "last_activity_at", "created_at"}

func TestConversationRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)
	ctx := context.Background()
	itemID := int32(5)

	t.Run("FindByParticipants normalises the pair", func(t *testing.T) {
		mock.ExpectQuery("FROM conversations c\\s+WHERE c.participant_a = \\$1 AND c.participant_b = \\$2 AND COALESCE\\(c.item_id, 0\\) = \\$3").
			WithArgs(int32(3), int32(8), int32(5)).
			WillReturnRows(sqlmock.NewRows(convCols).AddRow(21, 3, 8, 5, testTime, testTime))

		c, err := repo.FindByParticipants(ctx, 8, 3, &itemID)
		require.NoError(t, err)
		assert.Equal(t, int32(21), c.ID)
		assert.Equal(t, int32(5), *c.ItemID)
	})

	t.Run("FindByParticipants without item", func(t *testing.T) {
		mock.ExpectQuery("FROM conversations c").
			WithArgs(int32(3), int32(8), int32(0)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByParticipants(ctx, 3, 8, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Create", func(t *testing.T) {
		c := &domain.Conversation{ParticipantA: 8, ParticipantB: 3, ItemID: &itemID}
		mock.ExpectQuery("INSERT INTO conversations").
			WithArgs(int32(3), int32(8), int32(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(22))

		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, int32(22), c.ID)
		assert.Equal(t, int32(3), c.ParticipantA)
		assert.False(t, c.CreatedAt.IsZero())
	})

	t.Run("Create returns the existing row on unique violation", func(t *testing.T) {
		c := &domain.Conversation{ParticipantA: 3, ParticipantB: 8, ItemID: &itemID}
		mock.ExpectQuery("INSERT INTO conversations").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectQuery("FROM conversations c").
			WithArgs(int32(3), int32(8), int32(5)).
			WillReturnRows(sqlmock.NewRows(convCols).AddRow(21, 3, 8, 5, testTime, testTime))

		require.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, int32(21), c.ID)
	})

	t.Run("Create surfaces other errors", func(t *testing.T) {
		c := &domain.Conversation{ParticipantA: 3, ParticipantB: 8}
		mock.ExpectQuery("INSERT INTO conversations").
			WithArgs(int32(3), int32(8), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(sql.ErrConnDone)

		assert.ErrorIs(t, repo.Create(ctx, c), sql.ErrConnDone)
	})

	t.Run("ListByUser", func(t *testing.T) {
		later := testTime.Add(time.Hour)
		mock.ExpectQuery("LEFT JOIN LATERAL .* ORDER BY c.last_activity_at DESC").
			WithArgs(int32(3)).
			WillReturnRows(sqlmock.NewRows(append(convCols, "unread", "m_id", "m_sender", "m_content", "m_type", "m_read", "m_at")).
				AddRow(22, 3, 8, 5, later, testTime, 2, 40, 8, "still free?", "inquiry", false, later).
				AddRow(21, 3, 9, nil, testTime, testTime, 0, nil, nil, nil, nil, nil, nil))

		convs, err := repo.ListByUser(ctx, 3)
		require.NoError(t, err)
		require.Len(t, convs, 2)
		assert.Equal(t, int32(2), convs[0].UnreadCount)
		require.NotNil(t, convs[0].LastMessage)
		assert.Equal(t, domain.MessageTypeInquiry, convs[0].LastMessage.Type)
		assert.Nil(t, convs[1].LastMessage)
		assert.Nil(t, convs[1].ItemID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		m := &domain.Message{ConversationID: 22, SenderID: 8, Content: "hi", Type: domain.MessageTypeText}
		mock.ExpectQuery("INSERT INTO messages").
			WithArgs(int32(22), int32(8), "hi", "text", false, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))

		require.NoError(t, repo.Create(ctx, m))
		assert.Equal(t, int32(41), m.ID)
	})

	t.Run("MarkRead", func(t *testing.T) {
		mock.ExpectExec("UPDATE messages SET is_read = TRUE WHERE conversation_id = \\$1 AND sender_id <> \\$2").
			WithArgs(int32(22), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		n, err := repo.MarkRead(ctx, 22, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("ListUnreadDigests", func(t *testing.T) {
		mock.ExpectQuery("SELECT u.id, u.email, u.name, count\\(\\*\\), count\\(DISTINCT c.id\\)").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "unread", "conversations"}).
				AddRow(3, "ana@x", "Ana", 4, 2))

		digests, err := repo.ListUnreadDigests(ctx)
		require.NoError(t, err)
		require.Len(t, digests, 1)
		assert.Equal(t, int32(4), digests[0].UnreadCount)
		assert.Equal(t, int32(2), digests[0].Conversations)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInquiryRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewInquiryRepository(db)
	ctx := context.Background()

	t.Run("UpdateStatus links the conversation", func(t *testing.T) {
		convID := int32(22)
		mock.ExpectExec("UPDATE inquiries SET status").
			WithArgs("responded", int32(22), sqlmock.AnyArg(), int32(6)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 6, domain.InquiryStatusResponded, &convID))
	})

	t.Run("GetByID", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM inquiries WHERE id = \\$1").
			WithArgs(int32(6)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "inquirer_id", "owner_id", "subject", "message", "status", "conversation_id", "created_on", "updated_on"}).
				AddRow(6, 4, 2, 1, "Tent", "Free this weekend?", "open", nil, testTime, testTime))

		inq, err := repo.GetByID(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, domain.InquiryStatusOpen, inq.Status)
		assert.Nil(t, inq.ConversationID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COALESCE\\(AVG\\(rating\\), 0\\), count\\(\\*\\) FROM reviews WHERE item_id = \\$1").
		WithArgs(int32(4)).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))

	avg, n, err := repo.AverageForItem(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.5, avg)
	assert.Equal(t, int32(2), n)

	mock.ExpectQuery("FROM reviews r JOIN users u ON u.id = r.reviewer_id WHERE r.reviewee_id = \\$1").
		WithArgs(int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "booking_id", "reviewer_id", "reviewee_id", "rating", "comment", "created_on", "name", "avatar_url"}).
			AddRow(1, 4, 11, 2, 1, 5, "great", testTime, "Rae", ""))

	reviews, err := repo.ListByReviewee(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Rae", reviews[0].Reviewer.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository(t *testing.T) {
	db, mock := newMock(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	n := &domain.Notification{UserID: 1, Title: "New booking request", Message: "Rae wants your tent", Attributes: map[string]string{"type": "BOOKING_REQUESTED", "booking_id": "11"}}
	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(int32(1), n.Title, n.Message, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	require.NoError(t, repo.Create(ctx, n))
	assert.Equal(t, int32(3), n.ID)

	mock.ExpectExec("UPDATE notifications SET is_read = TRUE").
		WithArgs(int32(3), int32(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.MarkAsRead(ctx, 3, 2), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
