package device

import (
	"fmt"
	"github.com/jypelle/tphmonitor/internal/datapoint"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFile appends one row per reading. The file is named after the first
// reading it receives and gets a header only when created.
type LogFile struct {
	lock         sync.Mutex
	folder       string
	longFileName bool
	retryDelay   time.Duration

	file *os.File
	name string
}

func NewLogFile(folder string, longFileName bool) *LogFile {
	return &LogFile{
		folder:       folder,
		longFileName: longFileName,
		retryDelay:   time.Second,
	}
}

// FileName is "YYYY.MM.DD-HHMM_SS.log" or the 8.3 "YYMMDDHH.LOG".
func FileName(t time.Time, long bool) string {
	t = t.UTC()
	if long {
		return fmt.Sprintf("%04d.%02d.%02d-%02d%02d_%02d.log",
			t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return fmt.Sprintf("%02d%02d%02d%02d.LOG", t.Year()%100, t.Month(), t.Day(), t.Hour())
}

func (d *LogFile) CompleteFilename() string {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.name == "" {
		return ""
	}
	return filepath.Join(d.folder, d.name)
}

func (d *LogFile) open() error {
	if err := os.MkdirAll(d.folder, 0770); err != nil {
		return err
	}
	completeFilename := filepath.Join(d.folder, d.name)

	printHeader := false
	if _, err := os.Stat(completeFilename); os.IsNotExist(err) {
		printHeader = true
	} else {
		logrus.Debugf("Log file %s exists, no header", completeFilename)
	}

	f, err := os.OpenFile(completeFilename, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0660)
	if err != nil {
		return err
	}
	if printHeader {
		if _, err = f.WriteString(datapoint.Header + "\n"); err == nil {
			err = f.Sync()
		}
		if err != nil {
			f.Close()
			return err
		}
	}
	d.file = f
	return nil
}

// openForever keeps trying until the file is open.
func (d *LogFile) openForever() {
	for {
		err := d.open()
		if err == nil {
			logrus.Infof("Logging readings to %s", filepath.Join(d.folder, d.name))
			return
		}
		logrus.Warnf("Could not create/open log file %s, trying again: %v", d.name, err)
		time.Sleep(d.retryDelay)
	}
}

// Append writes dp as one row and flushes it to storage. It blocks until
// the row is written.
func (d *LogFile) Append(dp datapoint.DataPoint) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.name == "" {
		d.name = FileName(dp.Time, d.longFileName)
	}
	row := dp.Row() + "\n"
	for {
		if d.file == nil {
			d.openForever()
		}
		_, err := d.file.WriteString(row)
		if err == nil {
			err = d.file.Sync()
		}
		if err == nil {
			return
		}
		logrus.Warnf("Unable to write log row: %v", err)
		d.file.Close()
		d.file = nil
		time.Sleep(d.retryDelay)
	}
}

func (d *LogFile) Close() {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.file != nil {
		d.file.Close()
		d.file = nil
	}
}
