// Package watch polls a Messages database and reports rows that arrive after
// startup.
//
// A Poller owns a cursor, the highest ROWID it has observed. Init seeds it
// with the latest ROWID in the source so only future rows are reported. Each
// Poll reads rows after the cursor in ascending ROWID order, hands rows with
// text to a Sink and advances the cursor past every row read, including rows
// without text. Run repeats Poll with a fixed wait until its context is
// cancelled.
//
// Console is the Sink used by the imsgwatch command. It prints one block per
// message:
//
//	[15:04:05] ← IN
//	From: +15551234567
//	Text: hi...
//	--------------------------------------------------
//
// The cursor lives only in memory. Rows that arrive while the process is not
// running are not reported, and a restart resumes from the latest ROWID.
package watch
