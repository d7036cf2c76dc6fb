package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassifyDuplicate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want DuplicateKey
	}{
		{
			name: "Nil error",
			err:  nil,
			want: DuplicateNone,
		},
		{
			name: "Unrelated error",
			err:  errors.New("connection refused"),
			want: DuplicateNone,
		},
		{
			name: "Postgres email unique violation",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_members_email" (SQLSTATE 23505)`),
			want: DuplicateEmail,
		},
		{
			name: "Postgres student id unique violation",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_members_student_id" (SQLSTATE 23505)`),
			want: DuplicateStudentID,
		},
		{
			name: "Postgres token unique violation",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_email_verifications_token" (SQLSTATE 23505)`),
			want: DuplicateToken,
		},
		{
			name: "Sqlite email unique violation",
			err:  errors.New("UNIQUE constraint failed: members.email"),
			want: DuplicateEmail,
		},
		{
			name: "Sqlite student id unique violation",
			err:  errors.New("UNIQUE constraint failed: members.student_id"),
			want: DuplicateStudentID,
		},
		{
			// 인덱스/테이블 이름에 "email"이 같이 들어가도 token으로 분류
			name: "Sqlite token unique violation",
			err:  errors.New("UNIQUE constraint failed: email_verifications.token"),
			want: DuplicateToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDuplicate(tt.err))
		})
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{
			name:     "Record not found for member",
			err:      gorm.ErrRecordNotFound,
			context:  "find member",
			wantCode: AuthMemberNotFound,
		},
		{
			name:     "Duplicate email",
			err:      errors.New("UNIQUE constraint failed: members.email"),
			context:  "signup member",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "Duplicate student id",
			err:      errors.New("UNIQUE constraint failed: members.student_id"),
			context:  "signup member",
			wantCode: AuthStudentIDAlreadyExists,
		},
		{
			name:     "Unknown error is hidden",
			err:      errors.New("dial tcp: connection refused"),
			context:  "signup member",
			wantCode: InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
		})
	}
}
